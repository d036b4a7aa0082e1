// internal/fornecedor/model.go
package fornecedor

import (
	"time"

	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status de pagamento consolidado de um fornecedor.
const (
	StatusQuitado   = "QUITADO"
	StatusEmAberto  = "EM_ABERTO"
	StatusAdiantado = "ADIANTADO"
)

// StatusValido informa se o valor pertence ao conjunto fechado de status.
func StatusValido(status string) bool {
	switch status {
	case StatusQuitado, StatusEmAberto, StatusAdiantado:
		return true
	}
	return false
}

// Fornecedor é uma conta do Razão sendo conciliada. Os campos derivados
// (totais, saldo final, valor a pagar, status, contadores) são recalculados
// em cada rodada de conciliação a partir dos lançamentos, nunca editados à
// mão.
type Fornecedor struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	ArquivoOrigemID uint `gorm:"not null;index" json:"arquivoOrigemId"`

	CodigoConta    string  `gorm:"size:20;not null;index" json:"codigoConta"`
	ContaContabil  string  `gorm:"size:30" json:"contaContabil"`
	NomeFornecedor string  `gorm:"size:255;not null" json:"nomeFornecedor"`
	CNPJ           *string `gorm:"size:20" json:"cnpj"`

	SaldoAnterior     decimal.Decimal `gorm:"type:numeric(15,2)" json:"saldoAnterior"`
	SaldoAnteriorTipo string          `gorm:"size:1" json:"saldoAnteriorTipo"`

	TotalDebito  decimal.Decimal `gorm:"type:numeric(15,2)" json:"totalDebito"`
	TotalCredito decimal.Decimal `gorm:"type:numeric(15,2)" json:"totalCredito"`
	SaldoFinal   decimal.Decimal `gorm:"type:numeric(15,2)" json:"saldoFinal"`
	ValorAPagar  decimal.Decimal `gorm:"type:numeric(15,2)" json:"valorAPagar"`

	StatusPagamento    string `gorm:"size:20;index" json:"statusPagamento"`
	QtdNFsPendentes    int    `gorm:"not null;default:0" json:"qtdNfsPendentes"`
	QtdNFsParciais     int    `gorm:"not null;default:0" json:"qtdNfsParciais"`
	DivergenciaCalculo bool   `gorm:"not null;default:false" json:"divergenciaCalculo"`

	Lancamentos  []lancamento.LancamentoFornecedor `gorm:"foreignKey:FornecedorID;constraint:OnDelete:CASCADE" json:"lancamentos,omitempty"`
	Divergencias []divergencia.Divergencia         `gorm:"foreignKey:FornecedorID;constraint:OnDelete:CASCADE" json:"divergencias,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Fornecedor{})
}
