// internal/lancamento/repository.go
package lancamento

import (
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de Lançamentos de Fornecedor.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// CreateInBatch insere múltiplos lançamentos de uma vez (ignora se vazio).
func (r *Repository) CreateInBatch(lancamentos []*LancamentoFornecedor) error {
	if len(lancamentos) == 0 {
		return nil
	}
	return r.DB.Create(lancamentos).Error
}

// ListByFornecedorID devolve os lançamentos de um fornecedor na ordem de
// ingestão (id crescente). A ordem nunca é refeita por data ou valor: o id
// preserva a sequência (data, lote, posição) do arquivo original.
func (r *Repository) ListByFornecedorID(fornecedorID uint) ([]LancamentoFornecedor, error) {
	var lancamentos []LancamentoFornecedor
	err := r.DB.
		Where("fornecedor_id = ?", fornecedorID).
		Order("id ASC").
		Find(&lancamentos).Error
	return lancamentos, err
}

// CountByArquivoID conta os lançamentos de todos os fornecedores do arquivo.
func (r *Repository) CountByArquivoID(arquivoID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&LancamentoFornecedor{}).
		Joins("JOIN fornecedors ON fornecedors.id = lancamento_fornecedors.fornecedor_id").
		Where("fornecedors.arquivo_origem_id = ?", arquivoID).
		Count(&total).Error
	return total, err
}
