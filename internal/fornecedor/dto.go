// internal/fornecedor/dto.go
package fornecedor

import (
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/shopspring/decimal"
)

// ResumoDTO é a linha da tabela de fornecedores (GET /fornecedores).
type ResumoDTO struct {
	ID                 uint            `json:"id"`
	CodigoConta        string          `json:"codigo_conta"`
	ContaContabil      string          `json:"conta_contabil"`
	NomeFornecedor     string          `json:"nome_fornecedor"`
	TotalCredito       decimal.Decimal `json:"total_credito"`
	TotalDebito        decimal.Decimal `json:"total_debito"`
	SaldoFinal         decimal.Decimal `json:"saldo_final"`
	ValorAPagar        decimal.Decimal `json:"valor_a_pagar"`
	StatusPagamento    string          `json:"status_pagamento"`
	QtdNFsPendentes    int             `json:"qtd_nfs_pendentes"`
	QtdNFsParciais     int             `json:"qtd_nfs_parciais"`
	DivergenciaCalculo bool            `json:"divergencia_calculo"`
}

// ListaDTO embrulha a listagem paginada.
type ListaDTO struct {
	Total        int64       `json:"total"`
	Fornecedores []ResumoDTO `json:"fornecedores"`
}

// CompraPendenteDTO é uma NF ainda não quitada, no detalhe do fornecedor.
type CompraPendenteDTO struct {
	ID               uint            `json:"id"`
	DataLancamento   *string         `json:"data_lancamento"`
	NumeroNF         *string         `json:"numero_nf"`
	Historico        string          `json:"historico"`
	ValorTotal       decimal.Decimal `json:"valor_total"`
	ValorPagoParcial decimal.Decimal `json:"valor_pago_parcial"`
	ValorSaldo       decimal.Decimal `json:"valor_saldo"`
	StatusPagamento  string          `json:"status_pagamento"`
}

// LancamentoDTO é um movimento na visão de auditoria do fornecedor.
type LancamentoDTO struct {
	ID           uint            `json:"id"`
	Data         *string         `json:"data"`
	Lote         string          `json:"lote"`
	Historico    string          `json:"historico"`
	TipoOperacao string          `json:"tipo_operacao"`
	ValorDebito  decimal.Decimal `json:"valor_debito"`
	ValorCredito decimal.Decimal `json:"valor_credito"`
	SaldoApos    decimal.Decimal `json:"saldo_apos"`
}

// DetalheDTO é a resposta de GET /fornecedores/{id}.
type DetalheDTO struct {
	Fornecedor       DetalheFornecedorDTO `json:"fornecedor"`
	ComprasPendentes []CompraPendenteDTO  `json:"compras_pendentes"`
	TodosLancamentos []LancamentoDTO      `json:"todos_lancamentos"`
}

type DetalheFornecedorDTO struct {
	ID                 uint            `json:"id"`
	CodigoConta        string          `json:"codigo_conta"`
	ContaContabil      string          `json:"conta_contabil"`
	NomeFornecedor     string          `json:"nome_fornecedor"`
	CNPJ               *string         `json:"cnpj"`
	SaldoAnterior      decimal.Decimal `json:"saldo_anterior"`
	TotalCredito       decimal.Decimal `json:"total_credito"`
	TotalDebito        decimal.Decimal `json:"total_debito"`
	SaldoFinal         decimal.Decimal `json:"saldo_final"`
	ValorAPagar        decimal.Decimal `json:"valor_a_pagar"`
	StatusPagamento    string          `json:"status_pagamento"`
	DivergenciaCalculo bool            `json:"divergencia_calculo"`
}

func dataISO(l lancamento.LancamentoFornecedor) *string {
	if l.DataLancamento.IsZero() {
		return nil
	}
	s := l.DataLancamento.Format("2006-01-02T15:04:05")
	return &s
}

// MontarResumo converte o modelo na linha de listagem.
func MontarResumo(f Fornecedor) ResumoDTO {
	return ResumoDTO{
		ID:                 f.ID,
		CodigoConta:        f.CodigoConta,
		ContaContabil:      f.ContaContabil,
		NomeFornecedor:     f.NomeFornecedor,
		TotalCredito:       f.TotalCredito,
		TotalDebito:        f.TotalDebito,
		SaldoFinal:         f.SaldoFinal,
		ValorAPagar:        f.ValorAPagar,
		StatusPagamento:    f.StatusPagamento,
		QtdNFsPendentes:    f.QtdNFsPendentes,
		QtdNFsParciais:     f.QtdNFsParciais,
		DivergenciaCalculo: f.DivergenciaCalculo,
	}
}

// MontarDetalhe monta a visão completa do fornecedor com as compras em
// aberto e todos os lançamentos na ordem original.
func MontarDetalhe(f *Fornecedor, lancamentos []lancamento.LancamentoFornecedor) DetalheDTO {
	detalhe := DetalheDTO{
		Fornecedor: DetalheFornecedorDTO{
			ID:                 f.ID,
			CodigoConta:        f.CodigoConta,
			ContaContabil:      f.ContaContabil,
			NomeFornecedor:     f.NomeFornecedor,
			CNPJ:               f.CNPJ,
			SaldoAnterior:      f.SaldoAnterior,
			TotalCredito:       f.TotalCredito,
			TotalDebito:        f.TotalDebito,
			SaldoFinal:         f.SaldoFinal,
			ValorAPagar:        f.ValorAPagar,
			StatusPagamento:    f.StatusPagamento,
			DivergenciaCalculo: f.DivergenciaCalculo,
		},
		ComprasPendentes: []CompraPendenteDTO{},
		TodosLancamentos: []LancamentoDTO{},
	}

	for _, l := range lancamentos {
		if l.ValorCredito.IsPositive() && l.ValorSaldo.IsPositive() {
			detalhe.ComprasPendentes = append(detalhe.ComprasPendentes, CompraPendenteDTO{
				ID:               l.ID,
				DataLancamento:   dataISO(l),
				NumeroNF:         l.NumeroNF,
				Historico:        l.Historico,
				ValorTotal:       l.ValorCredito,
				ValorPagoParcial: l.ValorPagoParcial,
				ValorSaldo:       l.ValorSaldo,
				StatusPagamento:  l.StatusPagamento,
			})
		}
		detalhe.TodosLancamentos = append(detalhe.TodosLancamentos, LancamentoDTO{
			ID:           l.ID,
			Data:         dataISO(l),
			Lote:         l.Lote,
			Historico:    l.Historico,
			TipoOperacao: l.TipoOperacao,
			ValorDebito:  l.ValorDebito,
			ValorCredito: l.ValorCredito,
			SaldoApos:    l.SaldoAposLancamento,
		})
	}
	return detalhe
}
