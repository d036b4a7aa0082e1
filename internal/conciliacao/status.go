// internal/conciliacao/status.go
package conciliacao

import (
	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/shopspring/decimal"
)

// ClassificarStatus deriva o status de pagamento do fornecedor a partir do
// saldo final, da sobra de crédito não consumida e do número de pendências.
// As regras são avaliadas nesta ordem, vencendo a primeira que casar:
//
//  1. ADIANTADO — sobra de crédito acima da tolerância: o fornecedor
//     recebeu mais pagamento do que deve.
//  2. QUITADO — nenhuma compra pendente ou parcial e saldo final dentro da
//     tolerância de zero.
//  3. EM_ABERTO — resta valor a pagar.
func ClassificarStatus(saldoFinal, sobraCredito decimal.Decimal, pendentes, parciais int) string {
	if sobraCredito.GreaterThan(Tolerancia) {
		return fornecedor.StatusAdiantado
	}
	if pendentes == 0 && parciais == 0 && saldoFinal.Abs().LessThanOrEqual(Tolerancia) {
		return fornecedor.StatusQuitado
	}
	return fornecedor.StatusEmAberto
}
