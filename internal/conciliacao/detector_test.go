package conciliacao

import (
	"testing"

	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectarDivergenciasSemAnomalia(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     1,
		SaldoFinal:       dec("150.00"),
		ValorAPagar:      dec("150.00"),
		TotalLancamentos: 3,
	})
	assert.Empty(t, encontradas)
}

func TestDetectarDivergenciasSaldoDivergente(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     1,
		SaldoFinal:       dec("100.00"),
		ValorAPagar:      dec("130.00"),
		TotalLancamentos: 2,
	})

	require.Len(t, encontradas, 1)
	d := encontradas[0]
	assert.Equal(t, divergencia.TipoSaldoDivergente, d.Tipo)
	assert.Equal(t, divergencia.SeveridadeMedia, d.Severidade)
	// diferença com sinal: valor a pagar - saldo esperado
	assert.True(t, d.Diferenca.Equal(dec("30.00")), "diferença: %s", d.Diferenca)
}

func TestDetectarDivergenciasSaldoDivergenteNegativa(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     1,
		SaldoFinal:       dec("100.00"),
		ValorAPagar:      dec("70.00"),
		TotalLancamentos: 2,
	})

	require.Len(t, encontradas, 1)
	assert.True(t, encontradas[0].Diferenca.Equal(dec("-30.00")))
}

func TestDetectarDivergenciasSeveridadeAlta(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     1,
		SaldoFinal:       dec("0.00"),
		ValorAPagar:      dec("1500.00"),
		TotalLancamentos: 1,
	})

	require.Len(t, encontradas, 1)
	assert.Equal(t, divergencia.SeveridadeAlta, encontradas[0].Severidade)
}

func TestDetectarDivergenciasToleranciaAbsorveArredondamento(t *testing.T) {
	// exatamente na tolerância: não dispara
	encontradas := DetectarDivergencias(EntradaDeteccao{
		SaldoFinal:       dec("100.00"),
		ValorAPagar:      dec("100.01"),
		TotalLancamentos: 1,
	})
	assert.Empty(t, encontradas)

	// um centavo além: dispara
	encontradas = DetectarDivergencias(EntradaDeteccao{
		SaldoFinal:       dec("100.00"),
		ValorAPagar:      dec("100.02"),
		TotalLancamentos: 1,
	})
	assert.Len(t, encontradas, 1)
}

func TestDetectarDivergenciasSaldoFinalNegativoComparaComZero(t *testing.T) {
	// saldo final negativo: o valor a pagar esperado é zero
	encontradas := DetectarDivergencias(EntradaDeteccao{
		SaldoFinal:       dec("-200.00"),
		ValorAPagar:      decimal.Zero,
		TotalLancamentos: 2,
	})
	assert.Empty(t, encontradas)
}

func TestDetectarDivergenciasCompraComSaldoNegativo(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     7,
		SaldoFinal:       dec("10.00"),
		ValorAPagar:      dec("10.00"),
		TotalLancamentos: 2,
		Compras: []CompraAlocada{
			{ValorSaldo: dec("-5.00")},
			{ValorSaldo: dec("-2.00")},
		},
	})

	// no máximo um registro por tipo, mesmo com duas compras negativas
	require.Len(t, encontradas, 1)
	assert.Equal(t, divergencia.TipoSaldoNegativo, encontradas[0].Tipo)
	assert.Equal(t, divergencia.SeveridadeAlta, encontradas[0].Severidade)
}

func TestDetectarDivergenciasSaldoAnteriorOrfao(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		FornecedorID:     3,
		SaldoAnterior:    dec("999.99"),
		SaldoFinal:       dec("999.99"),
		ValorAPagar:      dec("999.99"),
		TotalLancamentos: 0,
	})

	require.Len(t, encontradas, 1)
	assert.Equal(t, divergencia.TipoSaldoAnteriorOrfao, encontradas[0].Tipo)
	assert.Equal(t, divergencia.SeveridadeBaixa, encontradas[0].Severidade)
}

func TestDetectarDivergenciasSemLancamentosESemSaldoAnterior(t *testing.T) {
	encontradas := DetectarDivergencias(EntradaDeteccao{
		SaldoAnterior:    decimal.Zero,
		SaldoFinal:       decimal.Zero,
		ValorAPagar:      decimal.Zero,
		TotalLancamentos: 0,
	})
	assert.Empty(t, encontradas)
}
