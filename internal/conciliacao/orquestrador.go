// internal/conciliacao/orquestrador.go
package conciliacao

import (
	"fmt"

	"github.com/IrrigaFour/api-conciliacao/internal/arquivo"
	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/IrrigaFour/api-conciliacao/internal/notificacao"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ResultadoFornecedor é a saída completa do pipeline para um fornecedor.
type ResultadoFornecedor struct {
	Saldos       ResultadoSaldo
	Alocacao     ResultadoAlocacao
	ValorAPagar  decimal.Decimal
	Status       string
	Divergencias []divergencia.Divergencia
}

// ConciliarFornecedor roda o pipeline puro para um fornecedor: acumula
// saldos, aloca pagamentos, classifica o status e detecta divergências.
// Não toca em banco; dado o mesmo fornecedor e os mesmos lançamentos, o
// resultado é sempre idêntico.
func ConciliarFornecedor(f *fornecedor.Fornecedor, lancamentos []lancamento.LancamentoFornecedor, politica PoliticaAlocacao) ResultadoFornecedor {
	saldos := CalcularSaldos(lancamentos, f.SaldoAnterior)
	alocacao := politica.Alocar(lancamentos)
	valorAPagar := alocacao.ValorAPagar()
	pendentes, parciais := alocacao.QtdPendentes()

	resultado := ResultadoFornecedor{
		Saldos:      saldos,
		Alocacao:    alocacao,
		ValorAPagar: valorAPagar,
		Status:      ClassificarStatus(saldos.SaldoFinal, alocacao.SobraCredito, pendentes, parciais),
	}
	resultado.Divergencias = DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     f.ID,
		SaldoAnterior:    f.SaldoAnterior,
		SaldoFinal:       saldos.SaldoFinal,
		ValorAPagar:      valorAPagar,
		Compras:          alocacao.Compras,
		TotalLancamentos: len(lancamentos),
	})
	return resultado
}

// Estatisticas é o resumo de uma rodada de conciliação de um arquivo.
type Estatisticas struct {
	TotalFornecedores int             `json:"total_fornecedores"`
	TotalLancamentos  int             `json:"total_lancamentos"`
	Quitados          int             `json:"fornecedores_quitados"`
	EmAberto          int             `json:"fornecedores_em_aberto"`
	Adiantados        int             `json:"fornecedores_adiantados"`
	ComDivergencia    int             `json:"fornecedores_com_divergencia"`
	ValorTotalAPagar  decimal.Decimal `json:"valor_total_a_pagar"`
}

// Orquestrador dirige a conciliação de um arquivo inteiro: carrega os
// fornecedores com seus lançamentos, roda o pipeline por fornecedor e grava
// tudo em uma única transação. Ou a rodada completa é persistida, ou nada é
// — em caso de falha o arquivo é marcado como ERRO sem estado parcial.
type Orquestrador struct {
	DB          *gorm.DB
	Politica    PoliticaAlocacao
	Log         *logrus.Logger
	Notificador *notificacao.Notificador
}

func NewOrquestrador(db *gorm.DB, log *logrus.Logger) *Orquestrador {
	return &Orquestrador{
		DB:       db,
		Politica: AlocacaoFIFO{},
		Log:      log,
	}
}

// Conciliar roda a conciliação completa do arquivo. Rodadas repetidas sobre
// os mesmos lançamentos produzem o mesmo resultado; as divergências da
// rodada anterior são substituídas, nunca mescladas.
func (o *Orquestrador) Conciliar(arquivoID uint) (*Estatisticas, error) {
	arqRepo := arquivo.NewRepository(o.DB)
	arq, err := arqRepo.BuscarPorID(arquivoID)
	if err != nil {
		return nil, fmt.Errorf("arquivo %d não encontrado: %w", arquivoID, err)
	}

	fornecedores, err := fornecedor.NewRepository().ListarComLancamentos(o.DB, arquivoID)
	if err != nil {
		_ = arqRepo.MarcarErro(arquivoID, err.Error())
		return nil, err
	}

	stats := &Estatisticas{ValorTotalAPagar: decimal.Zero}
	var alertas []divergencia.Divergencia

	err = o.DB.Transaction(func(tx *gorm.DB) error {
		for i := range fornecedores {
			f := &fornecedores[i]
			resultado := ConciliarFornecedor(f, f.Lancamentos, o.Politica)

			if err := persistirResultado(tx, f, resultado); err != nil {
				return fmt.Errorf("fornecedor %s: %w", f.CodigoConta, err)
			}

			stats.TotalFornecedores++
			stats.TotalLancamentos += len(f.Lancamentos)
			stats.ValorTotalAPagar = stats.ValorTotalAPagar.Add(resultado.ValorAPagar)
			switch resultado.Status {
			case fornecedor.StatusQuitado:
				stats.Quitados++
			case fornecedor.StatusEmAberto:
				stats.EmAberto++
			case fornecedor.StatusAdiantado:
				stats.Adiantados++
			}
			if len(resultado.Divergencias) > 0 {
				stats.ComDivergencia++
				for _, d := range resultado.Divergencias {
					if d.Severidade == divergencia.SeveridadeAlta {
						alertas = append(alertas, d)
					}
				}
			}
		}

		return tx.Model(&arquivo.ArquivoImportado{}).
			Where("id = ?", arq.ID).
			Updates(map[string]interface{}{
				"status":             arquivo.StatusConcluido,
				"mensagem_erro":      "",
				"total_fornecedores": stats.TotalFornecedores,
				"total_lancamentos":  stats.TotalLancamentos,
			}).Error
	})
	if err != nil {
		o.Log.WithFields(logrus.Fields{"arquivo_id": arquivoID, "erro": err}).
			Error("Conciliação abortada; nenhum resultado parcial foi gravado")
		_ = arqRepo.MarcarErro(arquivoID, err.Error())
		return nil, err
	}

	o.Log.WithFields(logrus.Fields{
		"arquivo_id":      arquivoID,
		"fornecedores":    stats.TotalFornecedores,
		"em_aberto":       stats.EmAberto,
		"com_divergencia": stats.ComDivergencia,
		"valor_a_pagar":   stats.ValorTotalAPagar.StringFixed(2),
	}).Info("Conciliação concluída")

	// alertas só depois do commit, para nunca anunciar estado não gravado
	if o.Notificador != nil {
		for _, d := range alertas {
			o.Notificador.EnviarAlertaDivergencia(d)
		}
	}
	return stats, nil
}

// persistirResultado grava o estado de quitação das compras, os campos
// derivados do fornecedor e o novo conjunto de divergências, tudo dentro da
// transação da rodada.
func persistirResultado(tx *gorm.DB, f *fornecedor.Fornecedor, resultado ResultadoFornecedor) error {
	for _, compra := range resultado.Alocacao.Compras {
		err := tx.Model(&lancamento.LancamentoFornecedor{}).
			Where("id = ?", compra.LancamentoID).
			Updates(map[string]interface{}{
				"valor_pago_parcial": compra.ValorPago,
				"valor_saldo":        compra.ValorSaldo,
				"status_pagamento":   compra.Status,
			}).Error
		if err != nil {
			return err
		}
	}

	pendentes, parciais := resultado.Alocacao.QtdPendentes()
	err := tx.Model(&fornecedor.Fornecedor{}).
		Where("id = ?", f.ID).
		Updates(map[string]interface{}{
			"total_debito":        resultado.Saldos.TotalDebito,
			"total_credito":       resultado.Saldos.TotalCredito,
			"saldo_final":         resultado.Saldos.SaldoFinal,
			"valor_a_pagar":       resultado.ValorAPagar,
			"status_pagamento":    resultado.Status,
			"qtd_n_fs_pendentes":  pendentes,
			"qtd_n_fs_parciais":   parciais,
			"divergencia_calculo": len(resultado.Divergencias) > 0,
		}).Error
	if err != nil {
		return err
	}

	return divergencia.ReplaceForFornecedor(tx, f.ID, resultado.Divergencias)
}
