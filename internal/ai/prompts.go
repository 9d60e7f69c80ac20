package ai

import (
	"fmt"
	"net/url"
	"strings"
)

// LineSummary is the slice of an order line the report prompt needs.
type LineSummary struct {
	Name     string
	Quantity int
}

// ReportPrompt builds the customer-report prompt deterministically from
// the order data. The instructions pin the model to the supplied line
// items so it cannot fabricate services that were not performed.
func ReportPrompt(clientName, carModel string, lines []LineSummary, total float64) string {
	var items strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&items, "- %s (x%d)\n", l.Name, l.Quantity)
	}
	return fmt.Sprintf(`Atue como um mecânico chefe honesto e profissional.
Escreva uma mensagem curta para WhatsApp para o cliente %s (Carro: %s).

LISTA REAL DE PEÇAS/SERVIÇOS REALIZADOS (USE APENAS ESTES):
%s
Valor Total: R$ %.2f

Instruções RÍGIDAS:
1. Cite APENAS as peças listadas acima. NÃO INVENTE NENHUM OUTRO SERVIÇO.
2. Se a lista for pequena, seja breve.
3. Explique a importância técnica do que foi feito.
4. Justifique o valor com base na qualidade/mão de obra.
5. Seja cordial. Sem markdown.`, clientName, carModel, items.String(), total)
}

// PriceAnalysisPrompt asks for a short market-positioning note on an
// item's sell price.
func PriceAnalysisPrompt(name string, sellPrice float64) string {
	return fmt.Sprintf(`Analise o preço de uma autopeça no Brasil. Produto: %s. Venda: R$ %.2f.
Responda em texto curto:
1. 'Preço Baixo/Justo/Alto'.
2. Faixa estimada de mercado.`, name, sellPrice)
}

// WhatsAppLink builds the wa.me contact link carrying the drafted
// message. Phone numbers are stored without the country code.
func WhatsAppLink(phone, message string) string {
	digits := strings.ReplaceAll(phone, " ", "")
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/55" + digits + "?text=" + encoded
}
