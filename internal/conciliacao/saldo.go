// internal/conciliacao/saldo.go
package conciliacao

import (
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/shopspring/decimal"
)

// Tolerancia é o epsilon absoluto abaixo do qual duas cifras são tratadas
// como iguais. Absorve arredondamento na última casa decimal; nunca é
// relativa ao valor.
var Tolerancia = decimal.RequireFromString("0.01")

// LimiarDiferencaAlta separa divergências de saldo MEDIA de ALTA.
var LimiarDiferencaAlta = decimal.RequireFromString("1000.00")

// ResultadoSaldo são os totais de um fornecedor derivados do razão, de cima
// para baixo.
type ResultadoSaldo struct {
	TotalDebito  decimal.Decimal
	TotalCredito decimal.Decimal
	SaldoFinal   decimal.Decimal
}

// CalcularSaldos percorre os lançamentos na ordem de ingestão acumulando os
// totais e o saldo corrente. A conta é credora: crédito (compra) aumenta o
// saldo devido, débito (pagamento) reduz.
//
//	saldo_final = saldo_anterior + total_credito − total_debito
//
// Lista vazia resulta em totais zero e saldo final igual ao anterior.
func CalcularSaldos(lancamentos []lancamento.LancamentoFornecedor, saldoAnterior decimal.Decimal) ResultadoSaldo {
	resultado := ResultadoSaldo{
		TotalDebito:  decimal.Zero,
		TotalCredito: decimal.Zero,
	}

	saldo := saldoAnterior
	for _, l := range lancamentos {
		resultado.TotalDebito = resultado.TotalDebito.Add(l.ValorDebito)
		resultado.TotalCredito = resultado.TotalCredito.Add(l.ValorCredito)
		saldo = saldo.Add(l.ValorCredito).Sub(l.ValorDebito)
	}
	resultado.SaldoFinal = saldo
	return resultado
}
