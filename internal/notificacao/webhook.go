package notificacao

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/sirupsen/logrus"
)

// Notificador envia alertas de divergência grave para um webhook externo
// (ex.: canal do time de contas a pagar). URL vazia desliga o envio.
type Notificador struct {
	URL string
	Log *logrus.Logger
}

func NewNotificador(url string, log *logrus.Logger) *Notificador {
	if url == "" {
		return nil
	}
	return &Notificador{URL: url, Log: log}
}

// EnviarAlertaDivergencia publica o alerta em melhor esforço: falha de
// entrega é logada e nunca interfere na conciliação já gravada.
func (n *Notificador) EnviarAlertaDivergencia(d divergencia.Divergencia) {
	payload := map[string]string{
		"mensagem":      "Alerta: divergência grave detectada na conciliação de fornecedores",
		"fornecedor_id": strconv.FormatUint(uint64(d.FornecedorID), 10),
		"tipo":          d.Tipo,
		"severidade":    d.Severidade,
		"diferenca":     d.Diferenca.StringFixed(2),
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(n.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		n.Log.WithField("erro", err).Warn("Erro ao enviar webhook de divergência")
		return
	}
	defer resp.Body.Close()
}
