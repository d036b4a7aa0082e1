package conciliacao

import (
	"testing"

	"github.com/IrrigaFour/api-conciliacao/internal/lancamento"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlocacaoFIFOPagamentoConsomeCompraMaisAntiga(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("100.00"),
		compra("50.00"),
		pagamento("120.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	require.Len(t, resultado.Compras, 2)

	primeira := resultado.Compras[0]
	assert.Equal(t, lancamento.StatusQuitado, primeira.Status)
	assert.True(t, primeira.ValorPago.Equal(dec("100.00")))
	assert.True(t, primeira.ValorSaldo.IsZero())

	segunda := resultado.Compras[1]
	assert.Equal(t, lancamento.StatusParcial, segunda.Status)
	assert.True(t, segunda.ValorPago.Equal(dec("20.00")))
	assert.True(t, segunda.ValorSaldo.Equal(dec("30.00")))

	assert.True(t, resultado.SobraCredito.IsZero())
	assert.True(t, resultado.ValorAPagar().Equal(dec("30.00")))
}

func TestAlocacaoFIFOSobraDeCredito(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("100.00"),
		pagamento("150.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	require.Len(t, resultado.Compras, 1)
	assert.Equal(t, lancamento.StatusQuitado, resultado.Compras[0].Status)
	assert.True(t, resultado.SobraCredito.Equal(dec("50.00")), "sobra: %s", resultado.SobraCredito)
	assert.True(t, resultado.ValorAPagar().IsZero())
}

func TestAlocacaoFIFOQuitacaoExata(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("80.00"),
		pagamento("80.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	require.Len(t, resultado.Compras, 1)
	assert.Equal(t, lancamento.StatusQuitado, resultado.Compras[0].Status)
	assert.True(t, resultado.SobraCredito.IsZero())
	assert.True(t, resultado.TotalAbatido.Equal(dec("80.00")))
}

// A sobra de um pagamento só abate compras que aparecem depois dele na
// sequência, nunca retroativamente.
func TestAlocacaoFIFOSobraAbateSomenteComprasPosteriores(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("100.00"),
		pagamento("250.00"),
		compra("120.00"),
		compra("60.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	require.Len(t, resultado.Compras, 3)

	// sobra de 150 quita a segunda compra e abate 30 da terceira
	assert.Equal(t, lancamento.StatusQuitado, resultado.Compras[0].Status)
	assert.Equal(t, lancamento.StatusQuitado, resultado.Compras[1].Status)
	assert.Equal(t, lancamento.StatusParcial, resultado.Compras[2].Status)
	assert.True(t, resultado.Compras[2].ValorSaldo.Equal(dec("30.00")))
	assert.True(t, resultado.SobraCredito.IsZero())
}

func TestAlocacaoFIFOPagamentoSemCompraViraSobra(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		pagamento("500.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	assert.Empty(t, resultado.Compras)
	assert.True(t, resultado.SobraCredito.Equal(dec("500.00")))
	assert.True(t, resultado.TotalAbatido.IsZero())
}

func TestAlocacaoFIFOLancamentoZeroNaoParticipa(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("100.00"),
		{ValorDebito: decimal.Zero, ValorCredito: decimal.Zero},
		pagamento("100.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	require.Len(t, resultado.Compras, 1)
	assert.Equal(t, lancamento.StatusQuitado, resultado.Compras[0].Status)
}

// Conservação: tudo que entrou em pagamento ou foi abatido ou virou sobra, e
// tudo que entrou em compra ou foi pago ou segue em saldo.
func TestAlocacaoFIFOConservacaoDeValores(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("300.00"),
		pagamento("120.00"),
		compra("45.50"),
		pagamento("400.00"),
		compra("10.00"),
	}

	resultado := AlocacaoFIFO{}.Alocar(lancamentos)

	totalPagamentos := dec("520.00")
	totalCompras := dec("355.50")

	assert.True(t, resultado.TotalAbatido.Add(resultado.SobraCredito).Equal(totalPagamentos),
		"abatido %s + sobra %s != pagamentos %s",
		resultado.TotalAbatido, resultado.SobraCredito, totalPagamentos)

	somaPagoESaldo := decimal.Zero
	for _, c := range resultado.Compras {
		somaPagoESaldo = somaPagoESaldo.Add(c.ValorPago).Add(c.ValorSaldo)
	}
	assert.True(t, somaPagoESaldo.Equal(totalCompras))
}

func TestAlocacaoFIFODeterministica(t *testing.T) {
	lancamentos := []lancamento.LancamentoFornecedor{
		compra("100.00"),
		compra("100.00"),
		pagamento("100.00"),
	}

	primeira := AlocacaoFIFO{}.Alocar(lancamentos)
	segunda := AlocacaoFIFO{}.Alocar(lancamentos)

	require.Len(t, primeira.Compras, 2)
	// compras de mesmo valor: vence a que aparece primeiro na sequência
	assert.Equal(t, lancamento.StatusQuitado, primeira.Compras[0].Status)
	assert.Equal(t, lancamento.StatusPendente, primeira.Compras[1].Status)

	for i := range primeira.Compras {
		assert.Equal(t, primeira.Compras[i].Status, segunda.Compras[i].Status)
		assert.True(t, primeira.Compras[i].ValorSaldo.Equal(segunda.Compras[i].ValorSaldo))
	}
}

func TestResultadoAlocacaoPendentes(t *testing.T) {
	resultado := AlocacaoFIFO{}.Alocar([]lancamento.LancamentoFornecedor{
		compra("100.00"),
		compra("50.00"),
		pagamento("100.00"),
	})

	pendentes := resultado.Pendentes()
	require.Len(t, pendentes, 1)
	assert.True(t, pendentes[0].ValorSaldo.Equal(dec("50.00")))

	qtdPendentes, qtdParciais := resultado.QtdPendentes()
	assert.Equal(t, 1, qtdPendentes)
	assert.Equal(t, 0, qtdParciais)
}
