// internal/relatorio/excel.go
package relatorio

import (
	"fmt"

	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/xuri/excelize/v2"
)

// Visões de exportação, todas derivadas do resultado já conciliado.
const (
	TipoCompleto     = "completo"     // todos os fornecedores
	TipoEmAberto     = "em_aberto"    // apenas status EM_ABERTO
	TipoDivergencias = "divergencias" // apenas fornecedores com divergência
)

// TipoValido informa se a visão pedida existe.
func TipoValido(tipo string) bool {
	switch tipo {
	case TipoCompleto, TipoEmAberto, TipoDivergencias:
		return true
	}
	return false
}

const nomePlanilha = "Conciliação Fornecedores"

var cabecalhos = []string{
	"Código", "Conta Contábil", "Fornecedor", "CNPJ",
	"Total Compras", "Total Pagamentos", "Saldo a Pagar",
	"Status", "NFs Pendentes", "Divergência",
}

// GerarExcel monta a planilha de conciliação para os fornecedores já
// filtrados pela visão escolhida.
func GerarExcel(fornecedores []fornecedor.Fornecedor) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", nomePlanilha); err != nil {
		return nil, err
	}

	estiloCabecalho, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for col, cabecalho := range cabecalhos {
		celula, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(nomePlanilha, celula, cabecalho); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(nomePlanilha, celula, celula, estiloCabecalho); err != nil {
			return nil, err
		}
	}

	for i, forn := range fornecedores {
		linha := i + 2
		cnpj := ""
		if forn.CNPJ != nil {
			cnpj = *forn.CNPJ
		}
		divergencia := "Não"
		if forn.DivergenciaCalculo {
			divergencia = "Sim"
		}
		totalCredito, _ := forn.TotalCredito.Float64()
		totalDebito, _ := forn.TotalDebito.Float64()
		valorAPagar, _ := forn.ValorAPagar.Float64()

		valores := []interface{}{
			forn.CodigoConta,
			forn.ContaContabil,
			forn.NomeFornecedor,
			cnpj,
			totalCredito,
			totalDebito,
			valorAPagar,
			forn.StatusPagamento,
			forn.QtdNFsPendentes,
			divergencia,
		}
		for col, valor := range valores {
			celula, err := excelize.CoordinatesToCellName(col+1, linha)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(nomePlanilha, celula, valor); err != nil {
				return nil, err
			}
		}
	}

	for col := range cabecalhos {
		nome, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(nomePlanilha, nome, nome, 20); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// NomeAnexo é o filename do Content-Disposition da exportação.
func NomeAnexo(tipo string) string {
	return fmt.Sprintf("conciliacao_fornecedores_%s.xlsx", tipo)
}
