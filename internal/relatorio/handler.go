// internal/relatorio/handler.go
package relatorio

import (
	"net/http"
	"strconv"

	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Log *logrus.Logger
}

func NewHandler(db *gorm.DB, log *logrus.Logger) *Handler {
	return &Handler{DB: db, Log: log}
}

// GET /export/excel/{arquivo_id}?tipo=completo|em_aberto|divergencias
func (h *Handler) ExportarExcel(w http.ResponseWriter, r *http.Request) {
	arquivoID, err := strconv.Atoi(mux.Vars(r)["arquivo_id"])
	if err != nil {
		http.Error(w, "ID do arquivo inválido", http.StatusBadRequest)
		return
	}

	tipo := r.URL.Query().Get("tipo")
	if tipo == "" {
		tipo = TipoCompleto
	}
	if !TipoValido(tipo) {
		http.Error(w, "Tipo inválido. Use 'completo', 'em_aberto' ou 'divergencias'", http.StatusBadRequest)
		return
	}

	query := h.DB.Where("arquivo_origem_id = ?", arquivoID)
	switch tipo {
	case TipoEmAberto:
		query = query.Where("status_pagamento = ?", fornecedor.StatusEmAberto)
	case TipoDivergencias:
		query = query.Where("divergencia_calculo = ?", true)
	}

	var fornecedores []fornecedor.Fornecedor
	if err := query.Order("valor_a_pagar DESC").Find(&fornecedores).Error; err != nil {
		http.Error(w, "Erro ao buscar fornecedores", http.StatusInternalServerError)
		return
	}

	planilha, err := GerarExcel(fornecedores)
	if err != nil {
		h.Log.WithField("erro", err).Error("Erro ao gerar planilha de conciliação")
		http.Error(w, "Erro ao gerar planilha", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+NomeAnexo(tipo))
	if err := planilha.Write(w); err != nil {
		h.Log.WithField("erro", err).Error("Erro ao enviar planilha de conciliação")
	}
}
