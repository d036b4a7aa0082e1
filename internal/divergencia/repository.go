// internal/divergencia/repository.go
package divergencia

import (
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de Divergências.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ListByArquivoID lista as divergências não resolvidas de um arquivo.
func (r *Repository) ListByArquivoID(arquivoID uint) ([]Divergencia, error) {
	var divergencias []Divergencia
	err := r.DB.
		Joins("JOIN fornecedors ON fornecedors.id = divergencias.fornecedor_id").
		Where("fornecedors.arquivo_origem_id = ? AND divergencias.resolvido = ?", arquivoID, false).
		Find(&divergencias).Error
	return divergencias, err
}

// ReplaceForFornecedor apaga as divergências antigas do fornecedor e grava o
// novo conjunto, dentro da transação recebida. É assim que a reconciliação
// mantém a semântica de "substituir, nunca mesclar".
func ReplaceForFornecedor(tx *gorm.DB, fornecedorID uint, novas []Divergencia) error {
	if err := tx.Where("fornecedor_id = ?", fornecedorID).Delete(&Divergencia{}).Error; err != nil {
		return err
	}
	if len(novas) == 0 {
		return nil
	}
	for i := range novas {
		novas[i].ID = 0
		novas[i].FornecedorID = fornecedorID
	}
	return tx.Create(&novas).Error
}

// CountFornecedoresByArquivoID conta fornecedores distintos do arquivo com ao
// menos uma divergência não resolvida.
func (r *Repository) CountFornecedoresByArquivoID(arquivoID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&Divergencia{}).
		Distinct("divergencias.fornecedor_id").
		Joins("JOIN fornecedors ON fornecedors.id = divergencias.fornecedor_id").
		Where("fornecedors.arquivo_origem_id = ? AND divergencias.resolvido = ?", arquivoID, false).
		Count(&total).Error
	return total, err
}
