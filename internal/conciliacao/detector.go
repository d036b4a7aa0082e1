// internal/conciliacao/detector.go
package conciliacao

import (
	"fmt"

	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/shopspring/decimal"
)

// EntradaDeteccao reúne as cifras independentes a confrontar para um
// fornecedor: o valor a pagar somado compra a compra (de baixo para cima) e
// o saldo derivado do razão (de cima para baixo). As duas devem coincidir;
// quando não coincidem, o dado de origem está incompleto ou malformado.
type EntradaDeteccao struct {
	FornecedorID     uint
	SaldoAnterior    decimal.Decimal
	SaldoFinal       decimal.Decimal
	ValorAPagar      decimal.Decimal
	Compras          []CompraAlocada
	TotalLancamentos int
}

// DetectarDivergencias aplica todas as checagens e devolve no máximo um
// registro por tipo. Anomalias numéricas nunca interrompem a conciliação:
// viram divergências para revisão humana e os valores seguem "como
// calculados".
func DetectarDivergencias(e EntradaDeteccao) []divergencia.Divergencia {
	var encontradas []divergencia.Divergencia

	// valor a pagar × saldo do razão
	esperado := decimal.Max(decimal.Zero, e.SaldoFinal)
	diferenca := e.ValorAPagar.Sub(esperado)
	if diferenca.Abs().GreaterThan(Tolerancia) {
		severidade := divergencia.SeveridadeMedia
		if diferenca.Abs().GreaterThan(LimiarDiferencaAlta) {
			severidade = divergencia.SeveridadeAlta
		}
		encontradas = append(encontradas, divergencia.Divergencia{
			FornecedorID: e.FornecedorID,
			Tipo:         divergencia.TipoSaldoDivergente,
			Severidade:   severidade,
			Descricao: fmt.Sprintf(
				"Valor a pagar calculado (%s) difere do saldo derivado do razão (%s)",
				e.ValorAPagar.StringFixed(2), esperado.StringFixed(2)),
			Diferenca: diferenca,
		})
	}

	// compra com saldo restante negativo: estruturalmente impossível,
	// indica defeito na alocação ou na entrada
	for _, c := range e.Compras {
		if c.ValorSaldo.LessThan(Tolerancia.Neg()) {
			encontradas = append(encontradas, divergencia.Divergencia{
				FornecedorID: e.FornecedorID,
				Tipo:         divergencia.TipoSaldoNegativo,
				Severidade:   divergencia.SeveridadeAlta,
				Descricao: fmt.Sprintf(
					"Compra com saldo restante negativo (%s) após alocação",
					c.ValorSaldo.StringFixed(2)),
				Diferenca: c.ValorSaldo,
			})
			break
		}
	}

	// saldo anterior sem lançamentos que o justifiquem
	if e.TotalLancamentos == 0 && !e.SaldoAnterior.IsZero() {
		encontradas = append(encontradas, divergencia.Divergencia{
			FornecedorID: e.FornecedorID,
			Tipo:         divergencia.TipoSaldoAnteriorOrfao,
			Severidade:   divergencia.SeveridadeBaixa,
			Descricao: fmt.Sprintf(
				"Saldo anterior de %s sem nenhum lançamento no período",
				e.SaldoAnterior.StringFixed(2)),
			Diferenca: e.SaldoAnterior,
		})
	}

	return encontradas
}
