// internal/lancamento/model.go
package lancamento

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipos de operação reconhecidos no Razão de Fornecedores.
// A conta é credora: a coluna CRÉDITO registra compras/NFs e a coluna
// DÉBITO registra pagamentos.
const (
	TipoCompra       = "COMPRA"
	TipoPagamento    = "PAGAMENTO"
	TipoDevolucao    = "DEVOLUCAO"
	TipoAdiantamento = "ADIANTAMENTO"
	TipoDebito       = "DEBITO"
	TipoCredito      = "CREDITO"
	TipoOutro        = "OUTRO"
)

// Status de pagamento de uma compra (NF) após a conciliação.
const (
	StatusPendente = "PENDENTE"
	StatusParcial  = "PARCIAL"
	StatusQuitado  = "QUITADO"
)

var (
	ErrValorNegativo    = errors.New("lançamento com valor negativo")
	ErrAmbosPreenchidos = errors.New("lançamento com débito e crédito simultâneos")
	ErrSemValor         = errors.New("lançamento sem valor de débito ou crédito")
)

// LancamentoFornecedor representa um movimento na conta de um fornecedor,
// na ordem em que aparece no Razão. A ordem de inserção é definitiva:
// nenhum componente posterior reordena os lançamentos.
type LancamentoFornecedor struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	FornecedorID uint `gorm:"not null;index" json:"fornecedorId"`

	DataLancamento time.Time `gorm:"not null;index" json:"dataLancamento"`
	Lote           string    `gorm:"size:20" json:"lote"`
	Historico      string    `json:"historico"`
	ContaPartida   *string   `gorm:"size:10" json:"contaPartida"`

	ValorDebito         decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"valorDebito"`
	ValorCredito        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"valorCredito"`
	SaldoAposLancamento decimal.Decimal `gorm:"type:numeric(15,2)" json:"saldoAposLancamento"`
	SaldoTipo           string          `gorm:"size:1" json:"saldoTipo"`

	TipoOperacao  string  `gorm:"size:20;not null;index" json:"tipoOperacao"`
	NumeroNF      *string `gorm:"size:20" json:"numeroNf"`
	CNPJHistorico *string `gorm:"size:20" json:"cnpjHistorico"`

	// Estado de quitação de uma compra, preenchido pela conciliação.
	ValorPagoParcial decimal.Decimal `gorm:"type:numeric(15,2)" json:"valorPagoParcial"`
	ValorSaldo       decimal.Decimal `gorm:"type:numeric(15,2)" json:"valorSaldo"`
	StatusPagamento  string          `gorm:"size:20" json:"statusPagamento"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validar verifica as invariantes de ingestão: valores não negativos e
// exatamente um dos lados (débito ou crédito) preenchido. Lançamentos que
// falham aqui nunca chegam ao motor de conciliação.
func (l *LancamentoFornecedor) Validar() error {
	if l.ValorDebito.IsNegative() || l.ValorCredito.IsNegative() {
		return ErrValorNegativo
	}
	if l.ValorDebito.IsPositive() && l.ValorCredito.IsPositive() {
		return ErrAmbosPreenchidos
	}
	if l.ValorDebito.IsZero() && l.ValorCredito.IsZero() {
		return ErrSemValor
	}
	return nil
}

// NormalizarTipo reduz um tipo de operação qualquer ao conjunto fechado de
// tipos conhecidos; valores estranhos viram OUTRO em vez de se propagarem.
func NormalizarTipo(tipo string) string {
	switch tipo {
	case TipoCompra, TipoPagamento, TipoDevolucao, TipoAdiantamento, TipoDebito, TipoCredito:
		return tipo
	default:
		return TipoOutro
	}
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&LancamentoFornecedor{})
}
