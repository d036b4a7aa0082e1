// internal/arquivo/repository.go
package arquivo

import (
	"gorm.io/gorm"
)

// Repository encapsula o acesso a dados de Arquivos Importados.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// BuscarPorHash devolve o arquivo já importado com o mesmo hash, se houver.
func (r *Repository) BuscarPorHash(hash string) (*ArquivoImportado, error) {
	var arq ArquivoImportado
	err := r.DB.Where("hash_arquivo = ?", hash).First(&arq).Error
	if err != nil {
		return nil, err
	}
	return &arq, nil
}

func (r *Repository) BuscarPorID(id uint) (*ArquivoImportado, error) {
	var arq ArquivoImportado
	if err := r.DB.First(&arq, id).Error; err != nil {
		return nil, err
	}
	return &arq, nil
}

func (r *Repository) Salvar(arq *ArquivoImportado) error {
	return r.DB.Save(arq).Error
}

// ListarTodos lista os arquivos do mais recente para o mais antigo.
func (r *Repository) ListarTodos() ([]ArquivoImportado, error) {
	var arquivos []ArquivoImportado
	err := r.DB.Order("created_at DESC").Find(&arquivos).Error
	return arquivos, err
}

// DeletarPorID apaga o arquivo e, por cascata, fornecedores, lançamentos e
// divergências derivados dele.
func (r *Repository) DeletarPorID(id uint) error {
	res := r.DB.Select("Fornecedores").Delete(&ArquivoImportado{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarcarErro registra a falha do processamento sem tocar no resto do banco.
func (r *Repository) MarcarErro(id uint, mensagem string) error {
	return r.DB.Model(&ArquivoImportado{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": StatusErro, "mensagem_erro": mensagem}).Error
}
