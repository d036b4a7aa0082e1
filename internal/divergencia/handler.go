// internal/divergencia/handler.go
package divergencia

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

// DivergenciaDTO é a linha de GET /divergencias.
type DivergenciaDTO struct {
	ID           uint            `json:"id"`
	FornecedorID uint            `json:"fornecedor_id"`
	Tipo         string          `json:"tipo"`
	Severidade   string          `json:"severidade"`
	Descricao    string          `json:"descricao"`
	Diferenca    decimal.Decimal `json:"diferenca"`
	CreatedAt    string          `json:"created_at"`
}

// GET /divergencias?arquivo_id=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	arquivoID, err := strconv.Atoi(r.URL.Query().Get("arquivo_id"))
	if err != nil || arquivoID <= 0 {
		http.Error(w, "Parâmetro arquivo_id inválido", http.StatusBadRequest)
		return
	}

	divergencias, err := h.Repo.ListByArquivoID(uint(arquivoID))
	if err != nil {
		http.Error(w, "Erro ao buscar divergências", http.StatusInternalServerError)
		return
	}

	lista := make([]DivergenciaDTO, 0, len(divergencias))
	for _, d := range divergencias {
		lista = append(lista, DivergenciaDTO{
			ID:           d.ID,
			FornecedorID: d.FornecedorID,
			Tipo:         d.Tipo,
			Severidade:   d.Severidade,
			Descricao:    d.Descricao,
			Diferenca:    d.Diferenca,
			CreatedAt:    d.CreatedAt.Format("2006-01-02T15:04:05"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}
