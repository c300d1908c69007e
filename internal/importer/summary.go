package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"staypivot/internal/model"
)

// Summarize 统计长表：记录数、客户数、日期范围与日租金合计
func Summarize(records []model.Record) model.Summary {
	s := model.Summary{Records: len(records)}
	if len(records) == 0 {
		return s
	}

	customers := make(map[string]struct{})
	days := make(map[string]struct{})
	for i, r := range records {
		customers[r.Customer] = struct{}{}
		days[r.Day.Format("2006-01-02")] = struct{}{}
		if i == 0 || r.Day.Before(s.First) {
			s.First = r.Day
		}
		if i == 0 || r.Day.After(s.Last) {
			s.Last = r.Day
		}
		s.TotalDailyRate += r.TotalDailyRate
	}
	s.UniqueCustomers = len(customers)
	s.UniqueDays = len(days)
	return s
}

// summaryTag 解析语言区域，无法识别时使用巴西葡萄牙语
func summaryTag(locale string) language.Tag {
	if locale == "" {
		return language.BrazilianPortuguese
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.BrazilianPortuguese
	}
	return tag
}

// WriteSummary 按语言区域输出统计（数字分组与小数点随区域变化）
func WriteSummary(w io.Writer, report *model.RunReport, locale string) {
	p := message.NewPrinter(summaryTag(locale))
	s := report.Summary

	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "RESUMO")
	fmt.Fprintln(w, line)

	p.Fprintf(w, "   • Total de registros: %d\n", s.Records)
	p.Fprintf(w, "   • Clientes únicos: %d\n", s.UniqueCustomers)
	if s.Records > 0 {
		p.Fprintf(w, "   • Período: %s a %s\n", s.First.Format("02/01/2006"), s.Last.Format("02/01/2006"))
	}
	p.Fprintf(w, "   • Dias únicos: %d\n", s.UniqueDays)
	p.Fprintf(w, "   • Total diárias: R$ %.2f\n", s.TotalDailyRate)

	if report.BadDates > 0 || report.Duplicates > 0 || report.Truncated > 0 || report.Recovered > 0 {
		p.Fprintf(w, "   • Descartados: %d datas inválidas, %d duplicados, %d blocos incompletos\n",
			report.BadDates, report.Duplicates, report.Truncated)
		p.Fprintf(w, "   • Registros zerados por falha de leitura: %d\n", report.Recovered)
	}
	if report.Defaulted > 0 {
		p.Fprintf(w, "   • Células convertidas para 0: %d\n", report.Defaulted)
	}
}
