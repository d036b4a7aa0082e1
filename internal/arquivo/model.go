// internal/arquivo/model.go
package arquivo

import (
	"time"

	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"gorm.io/gorm"
)

// Status de processamento de um arquivo importado.
const (
	StatusProcessando = "PROCESSANDO"
	StatusConcluido   = "CONCLUIDO"
	StatusErro        = "ERRO"
)

// ArquivoImportado é um Razão de Fornecedores importado. Ele é dono de todos
// os fornecedores, lançamentos e divergências produzidos a partir dele; a
// exclusão do arquivo remove tudo em cascata.
type ArquivoImportado struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	NomeArquivo  string `gorm:"size:255;not null" json:"nomeArquivo"`
	HashArquivo  string `gorm:"size:64;not null;uniqueIndex" json:"hashArquivo"`
	Status       string `gorm:"size:20;not null;default:'PROCESSANDO'" json:"status"`
	MensagemErro string `json:"mensagemErro,omitempty"`

	Empresa     string `gorm:"size:255" json:"empresa"`
	CNPJEmpresa string `gorm:"size:20" json:"cnpjEmpresa"`

	DataInicio *time.Time `json:"dataInicio"`
	DataFim    *time.Time `json:"dataFim"`

	TotalFornecedores int `gorm:"not null;default:0" json:"totalFornecedores"`
	TotalLancamentos  int `gorm:"not null;default:0" json:"totalLancamentos"`

	Fornecedores []fornecedor.Fornecedor `gorm:"foreignKey:ArquivoOrigemID;constraint:OnDelete:CASCADE" json:"fornecedores,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ArquivoImportado{})
}
