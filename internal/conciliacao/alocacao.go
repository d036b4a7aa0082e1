// internal/conciliacao/alocacao.go
package conciliacao

import (
	"time"

	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/shopspring/decimal"
)

// CompraAlocada é o estado de quitação de uma compra após a alocação dos
// pagamentos.
type CompraAlocada struct {
	// Indice é a posição do lançamento na sequência recebida.
	Indice        int
	LancamentoID  uint
	Data          time.Time
	NumeroNF      *string
	Historico     string
	ValorOriginal decimal.Decimal
	ValorPago     decimal.Decimal
	ValorSaldo    decimal.Decimal
	Status        string // PENDENTE, PARCIAL ou QUITADO
}

// ResultadoAlocacao é a visão de baixo para cima da dívida do fornecedor:
// quanto de cada compra segue em aberto e quanto de pagamento sobrou sem
// compra para abater.
type ResultadoAlocacao struct {
	Compras      []CompraAlocada
	SobraCredito decimal.Decimal
	TotalAbatido decimal.Decimal
}

// Pendentes devolve somente as compras com saldo em aberto (status PENDENTE
// ou PARCIAL). Compras quitadas não são materializadas como pendências.
func (r ResultadoAlocacao) Pendentes() []CompraAlocada {
	var pendentes []CompraAlocada
	for _, c := range r.Compras {
		if c.Status != lancamento.StatusQuitado {
			pendentes = append(pendentes, c)
		}
	}
	return pendentes
}

// ValorAPagar soma o saldo restante de todas as compras pendentes.
func (r ResultadoAlocacao) ValorAPagar() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Compras {
		total = total.Add(c.ValorSaldo)
	}
	return total
}

// QtdPendentes conta as compras sem nenhum pagamento e as parcialmente
// pagas.
func (r ResultadoAlocacao) QtdPendentes() (pendentes, parciais int) {
	for _, c := range r.Compras {
		switch c.Status {
		case lancamento.StatusPendente:
			pendentes++
		case lancamento.StatusParcial:
			parciais++
		}
	}
	return pendentes, parciais
}

// PoliticaAlocacao define como pagamentos são casados com compras. A regra
// de casamento do razão original não é documentada; a política fica atrás
// desta interface para que um casamento por número de NF possa substituir o
// FIFO sem tocar no orquestrador.
type PoliticaAlocacao interface {
	Alocar(lancamentos []lancamento.LancamentoFornecedor) ResultadoAlocacao
}

// AlocacaoFIFO aloca pagamentos contra a compra em aberto mais antiga
// primeiro, na ordem fixa de ingestão — o envelhecimento clássico de contas
// a pagar. O resultado é determinístico e reproduzível só com o log de
// lançamentos, sem depender de número de NF.
type AlocacaoFIFO struct{}

// Alocar percorre os lançamentos uma única vez, na ordem dada.
//
// Cada crédito (compra) abre um lote com saldo igual ao valor original.
// Cada débito (pagamento) consome os lotes abertos do mais antigo para o
// mais novo; o que sobrar do pagamento vira sobra de crédito, que só abate
// compras que apareçam DEPOIS dela na sequência — nunca retroativamente.
// Lançamentos com valor zero não criam lote nem consomem nada.
func (AlocacaoFIFO) Alocar(lancamentos []lancamento.LancamentoFornecedor) ResultadoAlocacao {
	resultado := ResultadoAlocacao{
		SobraCredito: decimal.Zero,
		TotalAbatido: decimal.Zero,
	}

	// índice, em resultado.Compras, dos lotes ainda com saldo
	var abertos []int

	consumir := func(disponivel decimal.Decimal) decimal.Decimal {
		for len(abertos) > 0 && disponivel.IsPositive() {
			lote := &resultado.Compras[abertos[0]]
			abate := decimal.Min(disponivel, lote.ValorSaldo)
			lote.ValorPago = lote.ValorPago.Add(abate)
			lote.ValorSaldo = lote.ValorSaldo.Sub(abate)
			disponivel = disponivel.Sub(abate)
			resultado.TotalAbatido = resultado.TotalAbatido.Add(abate)
			if !lote.ValorSaldo.IsPositive() {
				abertos = abertos[1:]
			}
		}
		return disponivel
	}

	for i, l := range lancamentos {
		switch {
		case l.ValorCredito.IsPositive():
			resultado.Compras = append(resultado.Compras, CompraAlocada{
				Indice:        i,
				LancamentoID:  l.ID,
				Data:          l.DataLancamento,
				NumeroNF:      l.NumeroNF,
				Historico:     l.Historico,
				ValorOriginal: l.ValorCredito,
				ValorPago:     decimal.Zero,
				ValorSaldo:    l.ValorCredito,
			})
			abertos = append(abertos, len(resultado.Compras)-1)
			// sobra acumulada abate compras que surgem depois dela
			resultado.SobraCredito = consumir(resultado.SobraCredito)

		case l.ValorDebito.IsPositive():
			sobra := consumir(l.ValorDebito)
			resultado.SobraCredito = resultado.SobraCredito.Add(sobra)
		}
	}

	for i := range resultado.Compras {
		c := &resultado.Compras[i]
		switch {
		case c.ValorSaldo.Equal(c.ValorOriginal):
			c.Status = lancamento.StatusPendente
		case c.ValorSaldo.IsPositive():
			c.Status = lancamento.StatusParcial
		default:
			c.Status = lancamento.StatusQuitado
		}
	}
	return resultado
}
