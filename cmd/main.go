package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/IrrigaFour/api-conciliacao/internal/arquivo"
	"github.com/IrrigaFour/api-conciliacao/internal/conciliacao"
	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/IrrigaFour/api-conciliacao/internal/notificacao"
	"github.com/IrrigaFour/api-conciliacao/internal/relatorio"
	"github.com/IrrigaFour/api-conciliacao/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// conciliadorAdapter liga o handler de arquivos ao processador sem criar
// dependência circular entre os pacotes.
type conciliadorAdapter struct {
	p *conciliacao.Processador
}

func (a conciliadorAdapter) Conciliar(arquivoID uint) error {
	_, err := a.p.Conciliar(arquivoID)
	return err
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco: ", err)
	}

	// AutoMigrate para todos os modelos
	if err := database.AutoMigrate(
		&arquivo.ArquivoImportado{},
		&fornecedor.Fornecedor{},
		&lancamento.LancamentoFornecedor{},
		&divergencia.Divergencia{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate: ", err)
	}

	notificador := notificacao.NewNotificador(os.Getenv("WEBHOOK_DIVERGENCIA_URL"), log)
	orquestrador := conciliacao.NewOrquestrador(database, log)
	orquestrador.Notificador = notificador
	processador := conciliacao.NewProcessador(orquestrador, 0)

	// Arquivos que ficaram em PROCESSANDO (processo interrompido no meio de
	// uma rodada) são retomados em paralelo, sem segurar o boot.
	var interrompidos []uint
	if err := database.Model(&arquivo.ArquivoImportado{}).
		Where("status = ?", arquivo.StatusProcessando).
		Pluck("id", &interrompidos).Error; err != nil {
		log.Warn("Erro ao buscar conciliações interrompidas: ", err)
	} else if len(interrompidos) > 0 {
		log.WithField("arquivos", len(interrompidos)).Info("Retomando conciliações interrompidas")
		go func() {
			for id, err := range processador.ConciliarVarios(context.Background(), interrompidos) {
				log.WithFields(logrus.Fields{"arquivo_id": id, "erro": err}).
					Warn("Falha ao retomar conciliação")
			}
		}()
	}

	// Handlers
	arquivoHandler := arquivo.NewHandler(database, conciliadorAdapter{p: processador}, log)
	fornecedorHandler := fornecedor.NewHandler(database)
	divergenciaHandler := divergencia.NewHandler(database)
	relatorioHandler := relatorio.NewHandler(database, log)

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"API de Conciliação de Fornecedores","status":"online"}`))
	}).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		sqlDB, err := database.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","database":"disconnected"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy","database":"connected"}`))
	}).Methods("GET")

	// Rotas de arquivos
	r.HandleFunc("/upload", arquivoHandler.Upload).Methods("POST")
	r.HandleFunc("/arquivos", arquivoHandler.Listar).Methods("GET")
	r.HandleFunc("/arquivos/{id}", arquivoHandler.Deletar).Methods("DELETE")
	r.HandleFunc("/arquivos/{id}/reconciliar", arquivoHandler.Reconciliar).Methods("POST")
	r.HandleFunc("/resumo/{id}", arquivoHandler.Resumo).Methods("GET")

	// Rotas de fornecedores
	r.HandleFunc("/fornecedores", fornecedorHandler.Listar).Methods("GET")
	r.HandleFunc("/fornecedores/{id}", fornecedorHandler.BuscarPorID).Methods("GET")

	// Rotas de divergências
	r.HandleFunc("/divergencias", divergenciaHandler.Listar).Methods("GET")

	// Rotas de exportação
	r.HandleFunc("/export/excel/{arquivo_id}", relatorioHandler.ExportarExcel).Methods("GET")

	origens := []string{"*"}
	if valor := os.Getenv("ALLOWED_ORIGINS"); valor != "" {
		origens = strings.Split(valor, ",")
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origens,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	log.Info("Servidor rodando em http://localhost:" + porta)
	log.Fatal(http.ListenAndServe(":"+porta, c.Handler(r)))
}
