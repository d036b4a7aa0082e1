// internal/fornecedor/handler.go
package fornecedor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB   *gorm.DB
	Repo Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repo: NewRepository()}
}

// GET /fornecedores?arquivo_id=&status=&tem_parciais=&skip=&limit=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	arquivoID, err := strconv.Atoi(r.URL.Query().Get("arquivo_id"))
	if err != nil || arquivoID <= 0 {
		http.Error(w, "Parâmetro arquivo_id inválido", http.StatusBadRequest)
		return
	}

	filtro := Filtro{ArquivoID: uint(arquivoID)}

	if status := r.URL.Query().Get("status"); status != "" {
		if !StatusValido(status) {
			http.Error(w, "Status inválido. Use 'QUITADO', 'EM_ABERTO' ou 'ADIANTADO'.", http.StatusBadRequest)
			return
		}
		filtro.Status = status
	}
	if raw := r.URL.Query().Get("tem_parciais"); raw != "" {
		temParciais, err := strconv.ParseBool(raw)
		if err != nil {
			http.Error(w, "Parâmetro tem_parciais inválido", http.StatusBadRequest)
			return
		}
		filtro.TemParciais = &temParciais
	}
	if raw := r.URL.Query().Get("skip"); raw != "" {
		filtro.Skip, _ = strconv.Atoi(raw)
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		filtro.Limit, _ = strconv.Atoi(raw)
	}

	fornecedores, total, err := h.Repo.ListarPorArquivo(h.DB, filtro)
	if err != nil {
		http.Error(w, "Erro ao buscar fornecedores", http.StatusInternalServerError)
		return
	}

	lista := ListaDTO{Total: total, Fornecedores: make([]ResumoDTO, 0, len(fornecedores))}
	for _, f := range fornecedores {
		lista.Fornecedores = append(lista.Fornecedores, MontarResumo(f))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// GET /fornecedores/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID do fornecedor inválido", http.StatusBadRequest)
		return
	}

	f, err := h.Repo.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "Fornecedor não encontrado", http.StatusNotFound)
		return
	}

	lancamentos, err := lancamento.NewRepository(h.DB).ListByFornecedorID(f.ID)
	if err != nil {
		http.Error(w, "Erro ao buscar lançamentos", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MontarDetalhe(f, lancamentos))
}
