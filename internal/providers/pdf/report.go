package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateEmissionsReport(ctx context.Context, data ReportData) (io.Reader, error) {
	summary := data.Summary

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(12, "Greenhouse Gas Emissions Report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Organization: "+data.Organization, props.Text{Top: 0}),
			text.New("Reporting period: "+data.ReportingPeriod, props.Text{Top: 4}),
			text.New("Country: "+summary.Country, props.Text{Top: 8}),
			text.New("Generated: "+summary.GeneratedAt.Format("2006-01-02 15:04 UTC"), props.Text{Top: 12}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(12, "Scope 1: Direct Emissions", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
		}),
	)
	addFigureRow(m, "Stationary combustion", summary.Scope1.Stationary)
	addFigureRow(m, "Mobile combustion", summary.Scope1.Mobile)
	addFigureRow(m, "Fugitive emissions", summary.Scope1.Fugitive)
	addTotalRow(m, "Scope 1 total", summary.Scope1.Total)

	m.AddRow(10,
		text.NewCol(12, "Scope 2: Purchased Electricity", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   3,
		}),
	)
	addFigureRow(m, "Location-based", summary.Scope2.LocationBased)
	addFigureRow(m, "Market-based", summary.Scope2.MarketBased)

	if summary.Scope3.Total > 0 || summary.Scope3.Note != "" {
		m.AddRow(10,
			text.NewCol(12, "Scope 3: Value Chain", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   3,
			}),
		)
		addFigureRow(m, "Scope 3 total", summary.Scope3.Total)
		if summary.Scope3.Note != "" {
			m.AddRow(8,
				text.NewCol(12, summary.Scope3.Note, props.Text{Size: 8}),
			)
		}
	}

	m.AddRow(10,
		text.NewCol(12, "Grand Totals", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   3,
		}),
	)
	addTotalRow(m, "Total (location-based)", summary.GrandTotals.LocationBased)
	addTotalRow(m, "Total (market-based)", summary.GrandTotals.MarketBased)

	if summary.Intensity != nil {
		m.AddRow(10,
			text.NewCol(8, "Emission intensity", props.Text{Size: 9}),
			text.NewCol(4, fmt.Sprintf("%.3f kg CO2e / %s revenue", summary.Intensity.Value, summary.Intensity.Currency), props.Text{
				Size:  9,
				Align: align.Right,
			}),
		)
	}

	if len(summary.Scope1.Calculations) > 0 || len(summary.Scope2.Calculations) > 0 {
		addDetailTable(m, summary)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func addFigureRow(m core.Maroto, label string, value float64) {
	m.AddRow(8,
		text.NewCol(8, label, props.Text{Size: 9}),
		text.NewCol(4, formatKg(value), props.Text{Size: 9, Align: align.Right}),
	)
}

func addTotalRow(m core.Maroto, label string, value float64) {
	m.AddRow(8,
		text.NewCol(8, label, props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(4, formatKg(value), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
}

func addDetailTable(m core.Maroto, summary calcdomain.ScopeSummary) {
	m.AddRow(10,
		text.NewCol(12, "Calculation Detail", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   3,
		}),
	)
	m.AddRow(8,
		text.NewCol(3, "Activity", props.Text{Style: fontstyle.Bold, Size: 8}),
		text.NewCol(3, "Scope", props.Text{Style: fontstyle.Bold, Size: 8}),
		text.NewCol(2, "Quantity", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "Source", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "kg CO2e", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
	)

	rows := append([]calcdomain.CalculationResult{}, summary.Scope1.Calculations...)
	rows = append(rows, summary.Scope2.Calculations...)
	for _, item := range rows {
		label := item.FuelType
		if label == "" {
			label = string(item.SubCategory)
		}
		source := ""
		if item.Factor != nil {
			source = item.Factor.Source
		}
		m.AddRow(7,
			text.NewCol(3, label, props.Text{Size: 8}),
			text.NewCol(3, string(item.Scope), props.Text{Size: 8}),
			text.NewCol(2, fmt.Sprintf("%.2f %s", item.Quantity, item.Unit), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, source, props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", item.TotalCO2e), props.Text{Size: 8, Align: align.Right}),
		)
	}
}

func formatKg(value float64) string {
	return fmt.Sprintf("%.2f kg CO2e", value)
}
