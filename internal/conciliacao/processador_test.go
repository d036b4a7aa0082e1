package conciliacao

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IrrigaFour/api-conciliacao/internal/arquivo"
	"github.com/IrrigaFour/api-conciliacao/internal/divergencia"
	"github.com/IrrigaFour/api-conciliacao/internal/fornecedor"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func criarArquivoComFornecedor(t *testing.T, db *gorm.DB, hash string) *arquivo.ArquivoImportado {
	t.Helper()
	arq := arquivo.ArquivoImportado{NomeArquivo: "razao.txt", HashArquivo: hash, Status: arquivo.StatusProcessando}
	require.NoError(t, db.Create(&arq).Error)

	f := fornecedor.Fornecedor{
		ArquivoOrigemID: arq.ID,
		CodigoConta:     "7777",
		NomeFornecedor:  "FORNECEDOR GAMA ME",
		SaldoAnterior:   decimal.Zero,
	}
	require.NoError(t, db.Create(&f).Error)
	criarLancamento(t, db, f.ID, "100.00", "0")
	criarLancamento(t, db, f.ID, "0", "40.00")
	return &arq
}

// A trava por id faz a segunda rodada do mesmo arquivo esperar a primeira
// terminar, e a entrada do mapa some quando ninguém mais a segura.
func TestProcessadorSerializaRodadasDoMesmoArquivo(t *testing.T) {
	p := NewProcessador(nil, 2)

	primeira := p.adquirir(7)

	segundaPassou := make(chan struct{})
	go func() {
		segunda := p.adquirir(7)
		p.liberar(7, segunda)
		close(segundaPassou)
	}()

	select {
	case <-segundaPassou:
		t.Fatal("segunda rodada passou com a primeira ainda em andamento")
	case <-time.After(50 * time.Millisecond):
	}

	p.liberar(7, primeira)

	select {
	case <-segundaPassou:
	case <-time.After(time.Second):
		t.Fatal("segunda rodada não destravou após o fim da primeira")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	require.Empty(t, p.travas, "travas de arquivos sem rodada em andamento devem ser descartadas")
}

func TestProcessadorConciliarConcorrenteNaoDuplicaDivergencias(t *testing.T) {
	db := abrirBancoTeste(t)

	arq := arquivo.ArquivoImportado{NomeArquivo: "razao.txt", HashArquivo: "conc", Status: arquivo.StatusProcessando}
	require.NoError(t, db.Create(&arq).Error)

	// saldo anterior sem lançamentos: gera divergências a cada rodada,
	// que precisam ser substituídas sem corrida
	f := fornecedor.Fornecedor{
		ArquivoOrigemID: arq.ID,
		CodigoConta:     "8888",
		NomeFornecedor:  "FORNECEDOR SEM MOVIMENTO",
		SaldoAnterior:   decimal.RequireFromString("500.00"),
	}
	require.NoError(t, db.Create(&f).Error)

	p := NewProcessador(NewOrquestrador(db, logSilencioso()), 4)

	var wg sync.WaitGroup
	erros := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, erros[i] = p.Conciliar(arq.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range erros {
		require.NoError(t, err)
	}

	var divergencias []divergencia.Divergencia
	require.NoError(t, db.Where("fornecedor_id = ?", f.ID).Find(&divergencias).Error)

	tipos := make(map[string]int)
	for _, d := range divergencias {
		tipos[d.Tipo]++
	}
	require.Equal(t, 1, tipos[divergencia.TipoSaldoAnteriorOrfao])
	require.Equal(t, 1, tipos[divergencia.TipoSaldoDivergente])
}

func TestProcessadorConciliarVariosIsolaFalhas(t *testing.T) {
	db := abrirBancoTeste(t)

	a := criarArquivoComFornecedor(t, db, "aaa")
	b := criarArquivoComFornecedor(t, db, "bbb")
	inexistente := uint(9999)

	p := NewProcessador(NewOrquestrador(db, logSilencioso()), 2)
	erros := p.ConciliarVarios(context.Background(), []uint{a.ID, inexistente, b.ID})

	require.Len(t, erros, 1)
	require.Error(t, erros[inexistente])

	for _, id := range []uint{a.ID, b.ID} {
		var arq arquivo.ArquivoImportado
		require.NoError(t, db.First(&arq, id).Error)
		require.Equal(t, arquivo.StatusConcluido, arq.Status, "arquivo %d", id)
	}
}
