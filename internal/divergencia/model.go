// internal/divergencia/model.go
package divergencia

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de divergência detectáveis pela conciliação.
const (
	TipoSaldoDivergente    = "SALDO_DIVERGENTE"     // valor a pagar ≠ saldo derivado do razão
	TipoSaldoNegativo      = "SALDO_NEGATIVO"       // compra com saldo restante negativo
	TipoSaldoAnteriorOrfao = "SALDO_ANTERIOR_ORFAO" // saldo anterior sem lançamentos que o sustentem
)

// Severidades, da mais branda à mais grave.
const (
	SeveridadeBaixa = "BAIXA"
	SeveridadeMedia = "MEDIA"
	SeveridadeAlta  = "ALTA"
)

// Divergencia registra uma inconsistência encontrada para um fornecedor em
// uma rodada de conciliação. Cada rodada substitui integralmente as
// divergências anteriores do fornecedor; nunca há atualização parcial.
type Divergencia struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	FornecedorID uint `gorm:"not null;index" json:"fornecedorId"`

	Tipo       string          `gorm:"size:40;not null" json:"tipo"`
	Severidade string          `gorm:"size:10;not null" json:"severidade"`
	Descricao  string          `json:"descricao"`
	Diferenca  decimal.Decimal `gorm:"type:numeric(15,2)" json:"diferenca"`
	Resolvido  bool            `gorm:"not null;default:false" json:"resolvido"`

	CreatedAt time.Time `json:"createdAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Divergencia{})
}
