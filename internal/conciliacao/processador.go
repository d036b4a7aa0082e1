// internal/conciliacao/processador.go
package conciliacao

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// trava serializa rodadas do mesmo arquivo. O contador de usos permite
// descartar a entrada do mapa quando nenhuma rodada a segura, para o mapa
// não crescer com um mutex por arquivo já conciliado.
type trava struct {
	mu   sync.Mutex
	usos int
}

// Processador concilia arquivos independentes em paralelo, mantendo no
// máximo uma rodada em andamento por arquivo. A conciliação de um arquivo é
// sequencial por natureza (a alocação FIFO dentro de um fornecedor depende
// da ordem), então a unidade de paralelismo é o arquivo inteiro.
type Processador struct {
	Orquestrador *Orquestrador
	Limite       int

	mu     sync.Mutex
	travas map[uint]*trava
}

func NewProcessador(orq *Orquestrador, limite int) *Processador {
	if limite <= 0 {
		limite = 4
	}
	return &Processador{
		Orquestrador: orq,
		Limite:       limite,
		travas:       make(map[uint]*trava),
	}
}

func (p *Processador) adquirir(arquivoID uint) *trava {
	p.mu.Lock()
	t, ok := p.travas[arquivoID]
	if !ok {
		t = &trava{}
		p.travas[arquivoID] = t
	}
	t.usos++
	p.mu.Unlock()

	t.mu.Lock()
	return t
}

func (p *Processador) liberar(arquivoID uint, t *trava) {
	t.mu.Unlock()

	p.mu.Lock()
	t.usos--
	if t.usos == 0 {
		delete(p.travas, arquivoID)
	}
	p.mu.Unlock()
}

// Conciliar roda a conciliação de um arquivo, serializando rodadas
// concorrentes do mesmo id: a semântica de "substituir divergências" da
// segunda rodada não pode correr contra a primeira.
func (p *Processador) Conciliar(arquivoID uint) (*Estatisticas, error) {
	t := p.adquirir(arquivoID)
	defer p.liberar(arquivoID, t)
	return p.Orquestrador.Conciliar(arquivoID)
}

// ConciliarVarios concilia vários arquivos em paralelo. Uma falha aborta
// apenas o arquivo em que ocorreu; os demais seguem até o fim.
func (p *Processador) ConciliarVarios(ctx context.Context, arquivoIDs []uint) map[uint]error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Limite)

	var mu sync.Mutex
	erros := make(map[uint]error)

	for _, id := range arquivoIDs {
		id := id
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if _, err := p.Conciliar(id); err != nil {
				mu.Lock()
				erros[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return erros
}
