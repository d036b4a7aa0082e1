// internal/razao/parser.go
//
// Parser do texto extraído do Razão de Fornecedores. A extração de texto do
// PDF é responsabilidade de um colaborador externo; este pacote recebe o
// texto plano, reconhece os blocos "Conta:", os lançamentos linha a linha e
// os totais, e entrega estruturas prontas para ingestão.
package razao

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrFormatoNaoSuportado = errors.New("formato não suportado: este parser funciona apenas com o texto extraído do Razão; PDFs escaneados ou ZIPs exigem extração/OCR prévios")
	ErrTextoVazio          = errors.New("não foi possível ler o conteúdo do arquivo: texto vazio ou curto demais")
)

// Lancamento é um movimento parseado, ainda sem identidade de banco.
type Lancamento struct {
	DataLancamento      time.Time
	Lote                string
	Historico           string
	ContaPartida        *string
	ValorDebito         decimal.Decimal
	ValorCredito        decimal.Decimal
	SaldoAposLancamento decimal.Decimal
	SaldoTipo           string
	NumeroNF            *string
	CNPJHistorico       *string
	TipoOperacao        string
}

// Fornecedor é um bloco de conta parseado com seus lançamentos na ordem do
// arquivo.
type Fornecedor struct {
	CodigoConta       string
	ContaContabil     string
	NomeFornecedor    string
	SaldoAnterior     decimal.Decimal
	SaldoAnteriorTipo string
	TotalDebito       decimal.Decimal
	TotalCredito      decimal.Decimal
	Lancamentos       []Lancamento
}

// Arquivo é o resultado completo do parse de um Razão.
type Arquivo struct {
	HashArquivo   string
	Empresa       string
	CNPJ          string
	PeriodoInicio *time.Time
	PeriodoFim    *time.Time
	Fornecedores  []Fornecedor
}

// TotalLancamentos soma os lançamentos de todos os fornecedores.
func (a *Arquivo) TotalLancamentos() int {
	total := 0
	for _, f := range a.Fornecedores {
		total += len(f.Lancamentos)
	}
	return total
}

var (
	reInicioLancamento = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+)$`)
	reComecaComData    = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)
	reValores          = regexp.MustCompile(`[\d.,]+`)
	reSaldoTipo        = regexp.MustCompile(`[\d.,]+([CD])`)
	reSufixoCD         = regexp.MustCompile(`[CD]\s*$`)
	reConta            = regexp.MustCompile(`^Conta:\s*(\d+)\s*-\s*([\d.]+)\s+(.+)$`)
	reSaldoAnterior    = regexp.MustCompile(`([\d.,]+)([CD])?`)
	reTotalConta       = regexp.MustCompile(`([\d.,]+)\s+([\d.,]+)`)
	reCNPJ             = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	rePeriodo          = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*-\s*(\d{2}/\d{2}/\d{4})`)
	reEmpresa          = regexp.MustCompile(`Empresa:\s*(.+?)(?:\s+Folha:|\n)`)
	reCNPJEmpresa      = regexp.MustCompile(`C\.N\.P\.J\.:\s*([\d./-]+)`)
	reNaoNumerico      = regexp.MustCompile(`[^\d.-]`)
)

// Padrões de número de NF/CT-e no histórico, do mais específico ao mais
// genérico. O primeiro match com pelo menos 4 dígitos vence.
var padroesNF = []*regexp.Regexp{
	regexp.MustCompile(`(?i)NF\.?\s*N[oºº°]?\s*(\d+)`),
	regexp.MustCompile(`(?i)NF\s+(\d+)`),
	regexp.MustCompile(`(?i)REF\s+(?:REF\s+)?NF\s+(\d+)`),
	regexp.MustCompile(`(?i)REF\s+(?:REF\s+)?(\d+)`),
	regexp.MustCompile(`(?i)CT-E\s*(\d+)`),
	regexp.MustCompile(`(?i)NOTA\s*FISCAL\s*(\d+)`),
	regexp.MustCompile(`(?i)CONFORME\s+NF[.\s]*(\d+)`),
	regexp.MustCompile(`^(\d{5,6})\s*-`),
	regexp.MustCompile(`(?i)CONFORME\s+NF\s+N[ÚU]MERO\s+(\d+)`),
	regexp.MustCompile(`(?i)CONF\.\s*NFS\s*(\d+)`),
}

// Palavras de histórico que marcam um DÉBITO (pagamento/baixa/adiantamento).
var palavrasPagamento = []string{
	"PGTO", "PAGAMENTO", "BAIXA",
	"VLR REF", "VALOR REF",
	"ADTO", "ADIANTAMENTO",
}

// CalcularHashArquivo devolve o SHA-256 em hexadecimal, usado para impedir
// importação duplicada do mesmo arquivo.
func CalcularHashArquivo(conteudo []byte) string {
	soma := sha256.Sum256(conteudo)
	return hex.EncodeToString(soma[:])
}

// ParseValor converte um valor no formato brasileiro ("1.234,56") para
// decimal. Texto irreconhecível vira zero, como no razão impresso, onde
// células vazias significam ausência de valor.
func ParseValor(texto string) decimal.Decimal {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return decimal.Zero
	}
	texto = strings.ReplaceAll(texto, ".", "")
	texto = strings.ReplaceAll(texto, ",", ".")
	texto = reNaoNumerico.ReplaceAllString(texto, "")
	valor, err := decimal.NewFromString(texto)
	if err != nil {
		return decimal.Zero
	}
	return valor
}

// ParseData converte "31/01/2025" para time.Time.
func ParseData(texto string) (time.Time, bool) {
	data, err := time.Parse("02/01/2006", strings.TrimSpace(texto))
	if err != nil {
		return time.Time{}, false
	}
	return data, true
}

// ExtrairNumeroNF procura o número de NF/CT-e no histórico.
func ExtrairNumeroNF(historico string) *string {
	for _, padrao := range padroesNF {
		if m := padrao.FindStringSubmatch(historico); m != nil {
			// números com menos de 4 dígitos costumam ser lote ou CPC
			if len(m[1]) >= 4 {
				nf := m[1]
				return &nf
			}
		}
	}
	return nil
}

// ExtrairCNPJ procura um CNPJ formatado no histórico.
func ExtrairCNPJ(historico string) *string {
	if m := reCNPJ.FindString(historico); m != "" {
		return &m
	}
	return nil
}

func contemAlguma(texto string, palavras []string) bool {
	for _, p := range palavras {
		if strings.Contains(texto, p) {
			return true
		}
	}
	return false
}

// ClassificarTipoOperacao deduz o tipo do lançamento pelo histórico e pelo
// lado preenchido. Débito é pagamento/devolução; crédito é compra ou
// adiantamento.
func ClassificarTipoOperacao(historico string, valorDebito, valorCredito decimal.Decimal) string {
	historicoUpper := strings.ToUpper(historico)

	switch {
	case valorDebito.IsPositive():
		if contemAlguma(historicoUpper, []string{"PGTO", "PAGAMENTO", "BAIXA", "VLR REF", "VALOR REF"}) {
			return "PAGAMENTO"
		}
		if strings.Contains(historicoUpper, "DEVOLUCAO") || strings.Contains(historicoUpper, "ESTORNO") {
			return "DEVOLUCAO"
		}
		return "DEBITO"

	case valorCredito.IsPositive():
		if contemAlguma(historicoUpper, []string{
			"COMPRA", "NF", "NOTA FISCAL", "SERVICO", "SERVIÇO",
			"CT-E", "ADQUIRIDO", "AQUISICAO", "AQUISIÇÃO", "CONFORME",
		}) {
			return "COMPRA"
		}
		if strings.Contains(historicoUpper, "ADTO") || strings.Contains(historicoUpper, "ADIANTAMENTO") {
			return "ADIANTAMENTO"
		}
		return "CREDITO"
	}
	return "OUTRO"
}

// parsearLinhaLancamento interpreta uma única linha de lançamento.
//
// Formatos do razão:
//
//	DATA LOTE HISTORICO CPC VALOR SALDO   (com conta de contrapartida)
//	DATA LOTE HISTORICO VALOR SALDO       (sem CPC)
//
// O último número da linha é sempre o saldo após o lançamento; o CPC é um
// número curto (até 4 dígitos) sem formatação monetária.
func parsearLinhaLancamento(linha string) *Lancamento {
	inicio := reInicioLancamento.FindStringSubmatch(linha)
	if inicio == nil {
		return nil
	}

	dataStr, lote, resto := inicio[1], inicio[2], inicio[3]

	valores := reValores.FindAllString(resto, -1)
	if len(valores) < 2 {
		return nil
	}

	saldoStr := valores[len(valores)-1]
	saldo := ParseValor(saldoStr)

	saldoTipo := ""
	if m := reSaldoTipo.FindStringSubmatch(resto); m != nil {
		saldoTipo = m[1]
	}

	var cpc string
	var valorMonetario string

	ehCPC := func(v string) bool {
		return !strings.ContainsAny(v, ".,") && len(v) <= 4
	}

	if len(valores) >= 3 {
		penultimo := valores[len(valores)-2]
		antepenultimo := valores[len(valores)-3]
		if ehCPC(penultimo) {
			cpc = penultimo
			if len(valores) >= 4 {
				valorMonetario = antepenultimo
			}
		} else {
			valorMonetario = penultimo
			if ehCPC(antepenultimo) {
				cpc = antepenultimo
			}
		}
	} else {
		valorMonetario = valores[len(valores)-2]
	}

	valor := decimal.Zero
	if valorMonetario != "" {
		valor = ParseValor(valorMonetario)
	}

	debito := decimal.Zero
	credito := decimal.Zero
	if contemAlguma(strings.ToUpper(resto), palavrasPagamento) {
		debito = valor
	} else {
		credito = valor
	}

	// Remove do histórico os números já consumidos (valor, CPC, saldo).
	historico := resto
	for _, v := range []string{saldoStr, valorMonetario, cpc} {
		if v == "" {
			continue
		}
		if idx := strings.LastIndex(historico, v); idx != -1 {
			historico = historico[:idx] + historico[idx+len(v):]
		}
	}
	historico = strings.TrimSpace(reSufixoCD.ReplaceAllString(historico, ""))

	lanc := &Lancamento{
		Lote:                lote,
		Historico:           historico,
		ValorDebito:         debito,
		ValorCredito:        credito,
		SaldoAposLancamento: saldo,
		SaldoTipo:           saldoTipo,
		NumeroNF:            ExtrairNumeroNF(historico),
		CNPJHistorico:       ExtrairCNPJ(historico),
		TipoOperacao:        ClassificarTipoOperacao(historico, debito, credito),
	}
	if data, ok := ParseData(dataStr); ok {
		lanc.DataLancamento = data
	}
	if cpc != "" {
		lanc.ContaPartida = &cpc
	}
	return lanc
}

// parsearFornecedor interpreta o bloco de linhas de uma conta: cabeçalho,
// saldo anterior, lançamentos (com históricos quebrados em múltiplas
// linhas) e total da conta.
func parsearFornecedor(linhas []string) *Fornecedor {
	var forn *Fornecedor
	var lancamentos []Lancamento
	var atual *Lancamento
	var historicoPendente []string

	for _, linha := range linhas {
		linha = strings.TrimSpace(linha)
		if linha == "" {
			continue
		}

		if m := reConta.FindStringSubmatch(linha); m != nil {
			forn = &Fornecedor{
				CodigoConta:    m[1],
				ContaContabil:  m[2],
				NomeFornecedor: strings.TrimSpace(m[3]),
			}
			atual = nil
			historicoPendente = nil
			continue
		}
		if forn == nil {
			continue
		}

		if strings.Contains(linha, "SALDO ANTERIOR") {
			if m := reSaldoAnterior.FindStringSubmatch(linha); m != nil {
				forn.SaldoAnterior = ParseValor(m[1])
				forn.SaldoAnteriorTipo = m[2]
			}
			historicoPendente = nil
			continue
		}

		if strings.Contains(linha, "Total da conta:") {
			if m := reTotalConta.FindStringSubmatch(linha); m != nil {
				forn.TotalDebito = ParseValor(m[1])
				forn.TotalCredito = ParseValor(m[2])
			}
			break
		}

		lanc := parsearLinhaLancamento(linha)

		switch {
		case lanc != nil:
			if atual != nil {
				lancamentos = append(lancamentos, *atual)
			}
			if len(historicoPendente) > 0 {
				prefixo := strings.TrimSpace(strings.Join(historicoPendente, " "))
				lanc.Historico = prefixo + " " + lanc.Historico
				if nf := ExtrairNumeroNF(lanc.Historico); nf != nil {
					lanc.NumeroNF = nf
				}
				historicoPendente = nil
			}
			atual = lanc

		case atual != nil && !reComecaComData.MatchString(linha):
			// continuação do histórico na linha seguinte
			atual.Historico += " " + linha
			if nf := ExtrairNumeroNF(atual.Historico); nf != nil {
				atual.NumeroNF = nf
			} else if nf := ExtrairNumeroNF(linha); nf != nil && atual.NumeroNF == nil {
				atual.NumeroNF = nf
			}

		case atual == nil && !reComecaComData.MatchString(linha):
			// texto antes do primeiro lançamento pertence ao próximo histórico
			historicoPendente = append(historicoPendente, linha)
		}
	}

	if atual != nil {
		lancamentos = append(lancamentos, *atual)
	}

	if forn == nil || len(lancamentos) == 0 {
		return nil
	}

	// Reclassifica tipo e NF com o histórico completo, que pode ter sido
	// montado a partir de várias linhas.
	for i := range lancamentos {
		l := &lancamentos[i]
		l.TipoOperacao = ClassificarTipoOperacao(l.Historico, l.ValorDebito, l.ValorCredito)
		if nf := ExtrairNumeroNF(l.Historico); nf != nil {
			l.NumeroNF = nf
		}
	}
	forn.Lancamentos = lancamentos
	return forn
}

// consolidarDuplicados funde fornecedores com o mesmo código de conta que
// foram quebrados entre páginas do PDF: os lançamentos são concatenados na
// ordem em que apareceram e os totais vêm do último bloco, que carrega o
// "Total da conta:" acumulado.
func consolidarDuplicados(fornecedores []Fornecedor) []Fornecedor {
	porCodigo := make(map[string][]Fornecedor)
	var ordem []string
	for _, f := range fornecedores {
		if _, visto := porCodigo[f.CodigoConta]; !visto {
			ordem = append(ordem, f.CodigoConta)
		}
		porCodigo[f.CodigoConta] = append(porCodigo[f.CodigoConta], f)
	}

	consolidados := make([]Fornecedor, 0, len(ordem))
	for _, codigo := range ordem {
		grupo := porCodigo[codigo]
		if len(grupo) == 1 {
			consolidados = append(consolidados, grupo[0])
			continue
		}

		base := grupo[0]
		var todos []Lancamento
		for _, f := range grupo {
			todos = append(todos, f.Lancamentos...)
		}
		base.Lancamentos = todos

		ultimo := grupo[len(grupo)-1]
		base.TotalDebito = ultimo.TotalDebito
		base.TotalCredito = ultimo.TotalCredito

		consolidados = append(consolidados, base)
	}
	return consolidados
}

// DetectarFormato identifica o conteúdo pelos magic bytes.
func DetectarFormato(conteudo []byte) string {
	switch {
	case bytes.HasPrefix(conteudo, []byte("%PDF")):
		return "PDF"
	case bytes.HasPrefix(conteudo, []byte("PK")):
		return "ZIP"
	default:
		return "TEXTO"
	}
}

// ParsearArquivoRazao interpreta o texto completo de um Razão de
// Fornecedores e devolve os fornecedores com seus lançamentos na ordem do
// arquivo, além dos dados de cabeçalho (empresa, CNPJ, período).
func ParsearArquivoRazao(conteudo []byte) (*Arquivo, error) {
	if DetectarFormato(conteudo) != "TEXTO" {
		return nil, ErrFormatoNaoSuportado
	}

	texto := string(conteudo)
	if len(strings.TrimSpace(texto)) < 100 {
		return nil, ErrTextoVazio
	}

	arquivo := &Arquivo{HashArquivo: CalcularHashArquivo(conteudo)}

	var fornecedores []Fornecedor
	var blocoAtual []string

	for _, linha := range strings.Split(texto, "\n") {
		linha = strings.TrimSpace(linha)
		if strings.HasPrefix(linha, "Conta:") && len(blocoAtual) > 0 {
			if f := parsearFornecedor(blocoAtual); f != nil {
				fornecedores = append(fornecedores, *f)
			}
			blocoAtual = nil
		}
		blocoAtual = append(blocoAtual, linha)
	}
	if len(blocoAtual) > 0 {
		if f := parsearFornecedor(blocoAtual); f != nil {
			fornecedores = append(fornecedores, *f)
		}
	}

	arquivo.Fornecedores = consolidarDuplicados(fornecedores)

	if m := rePeriodo.FindStringSubmatch(texto); m != nil {
		if inicio, ok := ParseData(m[1]); ok {
			arquivo.PeriodoInicio = &inicio
		}
		if fim, ok := ParseData(m[2]); ok {
			arquivo.PeriodoFim = &fim
		}
	}
	if m := reEmpresa.FindStringSubmatch(texto); m != nil {
		arquivo.Empresa = strings.TrimSpace(m[1])
	}
	if m := reCNPJEmpresa.FindStringSubmatch(texto); m != nil {
		arquivo.CNPJ = strings.TrimSpace(m[1])
	}

	return arquivo, nil
}
