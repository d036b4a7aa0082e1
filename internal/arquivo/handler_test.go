package arquivo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// conciliadorFake apenas marca o arquivo como concluído, sem rodar o motor.
type conciliadorFake struct {
	db       *gorm.DB
	chamadas int
}

func (c *conciliadorFake) Conciliar(arquivoID uint) error {
	c.chamadas++
	return c.db.Model(&ArquivoImportado{}).
		Where("id = ?", arquivoID).
		Update("status", StatusConcluido).Error
}

func montarHandlerTeste(t *testing.T) (*Handler, *conciliadorFake, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&ArquivoImportado{},
		&fornecedor.Fornecedor{},
		&lancamento.LancamentoFornecedor{},
		&divergencia.Divergencia{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	fake := &conciliadorFake{db: db}
	return NewHandler(db, fake, log), fake, db
}

func requisicaoUpload(t *testing.T, conteudo string) *http.Request {
	t.Helper()
	var corpo bytes.Buffer
	escritor := multipart.NewWriter(&corpo)
	parte, err := escritor.CreateFormFile("file", "razao.txt")
	require.NoError(t, err)
	_, err = parte.Write([]byte(conteudo))
	require.NoError(t, err)
	require.NoError(t, escritor.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &corpo)
	req.Header.Set("Content-Type", escritor.FormDataContentType())
	return req
}

const textoRazaoTeste = `Razão de Fornecedores  01/01/2025 - 31/01/2025
Conta: 1234 - 2.01.001 FORNECEDOR ALFA LTDA
SALDO ANTERIOR 0,00
10/01/2025 500 COMPRA CONFORME NF 12345 1.500,00 1.500,00C
20/01/2025 501 PGTO NF 12345 500,00 1.000,00C
Total da conta: 500,00 1.500,00
`

func TestUploadIngereEConcilia(t *testing.T) {
	handler, fake, db := montarHandlerTeste(t)

	rec := httptest.NewRecorder()
	handler.Upload(rec, requisicaoUpload(t, textoRazaoTeste))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, fake.chamadas)

	var resposta UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resposta))
	assert.True(t, resposta.Success)
	assert.NotZero(t, resposta.ArquivoID)

	var fornecedores []fornecedor.Fornecedor
	require.NoError(t, db.Find(&fornecedores).Error)
	require.Len(t, fornecedores, 1)
	assert.Equal(t, "1234", fornecedores[0].CodigoConta)

	var lancamentos []lancamento.LancamentoFornecedor
	require.NoError(t, db.Find(&lancamentos).Error)
	assert.Len(t, lancamentos, 2)

	var arq ArquivoImportado
	require.NoError(t, db.First(&arq, resposta.ArquivoID).Error)
	assert.Equal(t, StatusConcluido, arq.Status)
	require.NotNil(t, arq.DataInicio)
}

func TestUploadRejeitaArquivoDuplicado(t *testing.T) {
	handler, fake, _ := montarHandlerTeste(t)

	rec := httptest.NewRecorder()
	handler.Upload(rec, requisicaoUpload(t, textoRazaoTeste))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.Upload(rec, requisicaoUpload(t, textoRazaoTeste))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "já foi importado")
	assert.Equal(t, 1, fake.chamadas)
}

func TestUploadMarcaErroEmConteudoInvalido(t *testing.T) {
	handler, _, db := montarHandlerTeste(t)

	conteudo := append([]byte("%PDF-1.7"), make([]byte, 200)...)
	rec := httptest.NewRecorder()
	handler.Upload(rec, requisicaoUpload(t, string(conteudo)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var arq ArquivoImportado
	require.NoError(t, db.First(&arq).Error)
	assert.Equal(t, StatusErro, arq.Status)
	assert.NotEmpty(t, arq.MensagemErro)
}

func TestUploadSemCampoFile(t *testing.T) {
	handler, _, _ := montarHandlerTeste(t)

	var corpo bytes.Buffer
	escritor := multipart.NewWriter(&corpo)
	require.NoError(t, escritor.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &corpo)
	req.Header.Set("Content-Type", escritor.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
