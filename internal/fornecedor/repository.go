// internal/fornecedor/repository.go
package fornecedor

import (
	"gorm.io/gorm"
)

// Filtro de listagem de fornecedores de um arquivo.
type Filtro struct {
	ArquivoID   uint
	Status      string // vazio = sem filtro; senão match exato
	TemParciais *bool  // nil = sem filtro
	Skip        int
	Limit       int
}

type Repository interface {
	Salvar(db *gorm.DB, f *Fornecedor) error
	BuscarPorID(db *gorm.DB, id uint) (*Fornecedor, error)
	ListarPorArquivo(db *gorm.DB, filtro Filtro) ([]Fornecedor, int64, error)
	ListarComLancamentos(db *gorm.DB, arquivoID uint) ([]Fornecedor, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, f *Fornecedor) error {
	return db.Save(f).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Fornecedor, error) {
	var f Fornecedor
	err := db.First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListarPorArquivo aplica os filtros de status e NFs parciais e pagina,
// ordenando por valor a pagar decrescente (os maiores devedores primeiro).
func (r *repositoryImpl) ListarPorArquivo(db *gorm.DB, filtro Filtro) ([]Fornecedor, int64, error) {
	query := db.Model(&Fornecedor{}).Where("arquivo_origem_id = ?", filtro.ArquivoID)

	if filtro.Status != "" {
		query = query.Where("status_pagamento = ?", filtro.Status)
	}
	if filtro.TemParciais != nil {
		if *filtro.TemParciais {
			query = query.Where("qtd_n_fs_parciais > 0")
		} else {
			query = query.Where("qtd_n_fs_parciais = 0")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filtro.Limit
	if limit <= 0 {
		limit = 100
	}

	var fornecedores []Fornecedor
	err := query.
		Order("valor_a_pagar DESC").
		Offset(filtro.Skip).
		Limit(limit).
		Find(&fornecedores).Error
	return fornecedores, total, err
}

// ListarComLancamentos carrega os fornecedores do arquivo com seus
// lançamentos na ordem de ingestão, para a conciliação.
func (r *repositoryImpl) ListarComLancamentos(db *gorm.DB, arquivoID uint) ([]Fornecedor, error) {
	var fornecedores []Fornecedor
	err := db.
		Preload("Lancamentos", func(db *gorm.DB) *gorm.DB {
			return db.Order("lancamento_fornecedors.id ASC")
		}).
		Where("arquivo_origem_id = ?", arquivoID).
		Order("id ASC").
		Find(&fornecedores).Error
	return fornecedores, err
}
