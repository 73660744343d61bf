package mail

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// WelcomeMessage builds the post-registration email.
func WelcomeMessage(to, name string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s!\n\n", name)
	b.WriteString("Sua conta no GigLedger está pronta.\n")
	b.WriteString("Cadastre seus motoristas, veículos e plataformas e registre o primeiro ganho do dia.\n\n")
	b.WriteString("Boas corridas!\nEquipe GigLedger\n")
	return Message{To: to, Subject: "Bem-vindo ao GigLedger", Body: b.String()}
}

// WeeklySummaryData carries the KPIs the weekly email reports.
type WeeklySummaryData struct {
	Name          string
	TotalRevenue  float64
	TotalExpenses float64
	NetProfit     float64
	TotalKm       float64
	TotalHours    float64
}

// WeeklySummaryMessage builds the weekly KPI digest.
func WeeklySummaryMessage(to string, data WeeklySummaryData) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s!\n\n", data.Name)
	b.WriteString("Resumo da sua semana:\n\n")
	fmt.Fprintf(&b, "  Ganhos:   %s\n", brl.Sprintf("R$ %.2f", data.TotalRevenue))
	fmt.Fprintf(&b, "  Gastos:   %s\n", brl.Sprintf("R$ %.2f", data.TotalExpenses))
	fmt.Fprintf(&b, "  Lucro:    %s\n", brl.Sprintf("R$ %.2f", data.NetProfit))
	fmt.Fprintf(&b, "  Km:       %s\n", brl.Sprintf("%.1f km", data.TotalKm))
	fmt.Fprintf(&b, "  Horas:    %s\n", brl.Sprintf("%.1f h", data.TotalHours))
	b.WriteString("\nEquipe GigLedger\n")
	return Message{To: to, Subject: "Seu resumo semanal no GigLedger", Body: b.String()}
}
