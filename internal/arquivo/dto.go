// internal/arquivo/dto.go
package arquivo

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArquivoDTO é a linha de GET /arquivos.
type ArquivoDTO struct {
	ID                uint    `json:"id"`
	NomeArquivo       string  `json:"nome_arquivo"`
	Status            string  `json:"status"`
	TotalFornecedores int     `json:"total_fornecedores"`
	TotalLancamentos  int     `json:"total_lancamentos"`
	PeriodoInicio     *string `json:"periodo_inicio"`
	PeriodoFim        *string `json:"periodo_fim"`
	CreatedAt         string  `json:"created_at"`
}

// UploadResponse é a resposta de POST /upload.
type UploadResponse struct {
	Success   bool        `json:"success"`
	ArquivoID uint        `json:"arquivo_id"`
	Message   string      `json:"message"`
	Dados     UploadDados `json:"dados"`
}

type UploadDados struct {
	TotalFornecedores int     `json:"total_fornecedores"`
	TotalLancamentos  int     `json:"total_lancamentos"`
	PeriodoInicio     *string `json:"periodo_inicio"`
	PeriodoFim        *string `json:"periodo_fim"`
}

// ResumoResponse é a resposta de GET /resumo/{arquivo_id}.
type ResumoResponse struct {
	Arquivo      ResumoArquivo      `json:"arquivo"`
	Estatisticas ResumoEstatisticas `json:"estatisticas"`
}

type ResumoArquivo struct {
	ID            uint    `json:"id"`
	Nome          string  `json:"nome"`
	PeriodoInicio *string `json:"periodo_inicio"`
	PeriodoFim    *string `json:"periodo_fim"`
}

type ResumoEstatisticas struct {
	TotalFornecedores          int             `json:"total_fornecedores"`
	TotalLancamentos           int             `json:"total_lancamentos"`
	FornecedoresQuitados       int             `json:"fornecedores_quitados"`
	FornecedoresEmAberto       int             `json:"fornecedores_em_aberto"`
	FornecedoresAdiantados     int             `json:"fornecedores_adiantados"`
	FornecedoresComDivergencia int             `json:"fornecedores_com_divergencia"`
	ValorTotalAPagar           decimal.Decimal `json:"valor_total_a_pagar"`
}

func dataISO(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02T15:04:05")
	return &s
}

// MontarArquivoDTO converte o modelo na linha de listagem.
func MontarArquivoDTO(arq ArquivoImportado) ArquivoDTO {
	return ArquivoDTO{
		ID:                arq.ID,
		NomeArquivo:       arq.NomeArquivo,
		Status:            arq.Status,
		TotalFornecedores: arq.TotalFornecedores,
		TotalLancamentos:  arq.TotalLancamentos,
		PeriodoInicio:     dataISO(arq.DataInicio),
		PeriodoFim:        dataISO(arq.DataFim),
		CreatedAt:         arq.CreatedAt.Format("2006-01-02T15:04:05"),
	}
}
