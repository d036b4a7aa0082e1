// internal/arquivo/handler.go
package arquivo

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/IrrigaFour/api-conciliacao/internal/razao"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Conciliador dispara a conciliação de um arquivo já ingerido. A
// implementação real vive no pacote de conciliação; a interface evita a
// dependência circular entre ingestão e motor.
type Conciliador interface {
	Conciliar(arquivoID uint) error
}

type Handler struct {
	DB          *gorm.DB
	Repo        *Repository
	Conciliador Conciliador
	Log         *logrus.Logger
}

func NewHandler(db *gorm.DB, conciliador Conciliador, log *logrus.Logger) *Handler {
	return &Handler{DB: db, Repo: NewRepository(db), Conciliador: conciliador, Log: log}
}

const tamanhoMaximoUpload = 64 << 20 // 64 MiB

// POST /upload
// Recebe o texto extraído do Razão de Fornecedores, ingere fornecedores e
// lançamentos e dispara a conciliação.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(tamanhoMaximoUpload); err != nil {
		http.Error(w, "Upload inválido", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Campo 'file' ausente no upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	conteudo, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Erro ao ler o arquivo", http.StatusInternalServerError)
		return
	}

	hash := razao.CalcularHashArquivo(conteudo)
	if _, err := h.Repo.BuscarPorHash(hash); err == nil {
		http.Error(w, "Arquivo já foi importado anteriormente", http.StatusBadRequest)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Erro ao verificar duplicidade do arquivo", http.StatusInternalServerError)
		return
	}

	arq := &ArquivoImportado{
		NomeArquivo: header.Filename,
		HashArquivo: hash,
		Status:      StatusProcessando,
	}
	if err := h.Repo.Salvar(arq); err != nil {
		http.Error(w, "Erro ao registrar o arquivo", http.StatusInternalServerError)
		return
	}

	parseado, err := razao.ParsearArquivoRazao(conteudo)
	if err != nil {
		_ = h.Repo.MarcarErro(arq.ID, err.Error())
		http.Error(w, "Erro ao processar arquivo: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.ingerir(arq, parseado); err != nil {
		_ = h.Repo.MarcarErro(arq.ID, err.Error())
		http.Error(w, "Erro ao processar arquivo: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Conciliador.Conciliar(arq.ID); err != nil {
		http.Error(w, "Erro ao conciliar arquivo: "+err.Error(), http.StatusInternalServerError)
		return
	}

	atualizado, err := h.Repo.BuscarPorID(arq.ID)
	if err != nil {
		http.Error(w, "Erro ao buscar arquivo processado", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(UploadResponse{
		Success:   true,
		ArquivoID: atualizado.ID,
		Message:   "Arquivo processado com sucesso",
		Dados: UploadDados{
			TotalFornecedores: atualizado.TotalFornecedores,
			TotalLancamentos:  atualizado.TotalLancamentos,
			PeriodoInicio:     dataISO(atualizado.DataInicio),
			PeriodoFim:        dataISO(atualizado.DataFim),
		},
	})
}

// ingerir grava fornecedores e lançamentos em uma única transação, na ordem
// do arquivo. Lançamentos malformados (valor negativo, ambos os lados
// preenchidos) são rejeitados aqui e nunca chegam ao motor.
func (h *Handler) ingerir(arq *ArquivoImportado, parseado *razao.Arquivo) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		fornRepo := fornecedor.NewRepository()
		for _, fp := range parseado.Fornecedores {
			f := fornecedor.Fornecedor{
				ArquivoOrigemID:   arq.ID,
				CodigoConta:       fp.CodigoConta,
				ContaContabil:     fp.ContaContabil,
				NomeFornecedor:    fp.NomeFornecedor,
				SaldoAnterior:     fp.SaldoAnterior,
				SaldoAnteriorTipo: fp.SaldoAnteriorTipo,
			}
			// CNPJ do fornecedor: primeiro CNPJ visto nos históricos
			for _, lp := range fp.Lancamentos {
				if lp.CNPJHistorico != nil {
					f.CNPJ = lp.CNPJHistorico
					break
				}
			}
			if err := fornRepo.Salvar(tx, &f); err != nil {
				return err
			}

			lancamentos := make([]*lancamento.LancamentoFornecedor, 0, len(fp.Lancamentos))
			for _, lp := range fp.Lancamentos {
				l := &lancamento.LancamentoFornecedor{
					FornecedorID:        f.ID,
					DataLancamento:      lp.DataLancamento,
					Lote:                lp.Lote,
					Historico:           lp.Historico,
					ContaPartida:        lp.ContaPartida,
					ValorDebito:         lp.ValorDebito,
					ValorCredito:        lp.ValorCredito,
					SaldoAposLancamento: lp.SaldoAposLancamento,
					SaldoTipo:           lp.SaldoTipo,
					TipoOperacao:        lancamento.NormalizarTipo(lp.TipoOperacao),
					NumeroNF:            lp.NumeroNF,
					CNPJHistorico:       lp.CNPJHistorico,
					ValorPagoParcial:    decimal.Zero,
					ValorSaldo:          decimal.Zero,
				}
				if err := l.Validar(); err != nil {
					h.Log.WithFields(logrus.Fields{
						"conta":     fp.CodigoConta,
						"historico": lp.Historico,
						"erro":      err,
					}).Warn("Lançamento malformado rejeitado na ingestão")
					continue
				}
				lancamentos = append(lancamentos, l)
			}
			if err := lancamento.NewRepository(tx).CreateInBatch(lancamentos); err != nil {
				return err
			}
		}

		return tx.Model(&ArquivoImportado{}).
			Where("id = ?", arq.ID).
			Updates(map[string]interface{}{
				"empresa":      parseado.Empresa,
				"cnpj_empresa": parseado.CNPJ,
				"data_inicio":  parseado.PeriodoInicio,
				"data_fim":     parseado.PeriodoFim,
			}).Error
	})
}

// GET /arquivos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	arquivos, err := h.Repo.ListarTodos()
	if err != nil {
		http.Error(w, "Erro ao buscar arquivos", http.StatusInternalServerError)
		return
	}
	lista := make([]ArquivoDTO, 0, len(arquivos))
	for _, arq := range arquivos {
		lista = append(lista, MontarArquivoDTO(arq))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// POST /arquivos/{id}/reconciliar
// Re-roda a conciliação sobre os lançamentos já ingeridos. A rodada é
// idempotente: divergências antigas são substituídas, nunca acumuladas.
func (h *Handler) Reconciliar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do arquivo inválido", http.StatusBadRequest)
		return
	}
	if _, err := h.Repo.BuscarPorID(uint(id)); err != nil {
		http.Error(w, "Arquivo não encontrado", http.StatusNotFound)
		return
	}
	if err := h.Conciliador.Conciliar(uint(id)); err != nil {
		http.Error(w, "Erro ao conciliar arquivo: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.Resumo(w, r)
}

// DELETE /arquivos/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do arquivo inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repo.DeletarPorID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Arquivo não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "Erro ao deletar arquivo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /resumo/{id}
func (h *Handler) Resumo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do arquivo inválido", http.StatusBadRequest)
		return
	}

	arq, err := h.Repo.BuscarPorID(uint(id))
	if err != nil {
		http.Error(w, "Arquivo não encontrado", http.StatusNotFound)
		return
	}

	var fornecedores []fornecedor.Fornecedor
	if err := h.DB.Where("arquivo_origem_id = ?", arq.ID).Find(&fornecedores).Error; err != nil {
		http.Error(w, "Erro ao buscar fornecedores", http.StatusInternalServerError)
		return
	}

	comDivergencia, err := divergencia.NewRepository(h.DB).CountFornecedoresByArquivoID(arq.ID)
	if err != nil {
		http.Error(w, "Erro ao buscar divergências", http.StatusInternalServerError)
		return
	}

	totalLancamentos, err := lancamento.NewRepository(h.DB).CountByArquivoID(arq.ID)
	if err != nil {
		http.Error(w, "Erro ao buscar lançamentos", http.StatusInternalServerError)
		return
	}

	estatisticas := ResumoEstatisticas{
		TotalFornecedores:          len(fornecedores),
		TotalLancamentos:           int(totalLancamentos),
		FornecedoresComDivergencia: int(comDivergencia),
		ValorTotalAPagar:           decimal.Zero,
	}
	for _, f := range fornecedores {
		switch f.StatusPagamento {
		case fornecedor.StatusQuitado:
			estatisticas.FornecedoresQuitados++
		case fornecedor.StatusEmAberto:
			estatisticas.FornecedoresEmAberto++
		case fornecedor.StatusAdiantado:
			estatisticas.FornecedoresAdiantados++
		}
		estatisticas.ValorTotalAPagar = estatisticas.ValorTotalAPagar.Add(f.ValorAPagar)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ResumoResponse{
		Arquivo: ResumoArquivo{
			ID:            arq.ID,
			Nome:          arq.NomeArquivo,
			PeriodoInicio: dataISO(arq.DataInicio),
			PeriodoFim:    dataISO(arq.DataFim),
		},
		Estatisticas: estatisticas,
	})
}
