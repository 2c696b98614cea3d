package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/smallbiznis/carbonledger/internal/emissionfactor/repository"
	"github.com/smallbiznis/carbonledger/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) factordomain.Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&factordomain.EmissionFactorRecord{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	return NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(db),
	})
}

func dieselImport() factordomain.ImportRequest {
	return factordomain.ImportRequest{
		Category:    factordomain.Scope1,
		SubCategory: factordomain.StationaryCombustion,
		FuelType:    "Diesel",
		Country:     "Ireland",
		Unit:        "litre",
		CO2Factor:   2.52,
		CH4Factor:   0.000074,
		N2OFactor:   0.000074,
		DataQuality: factordomain.DataQualityHigh,
		Source:      "SEAI",
		ValidFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:     time.Date(2034, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestImport_DerivesTotalFromComponents(t *testing.T) {
	svc := newTestService(t)

	record, err := svc.Import(context.Background(), dieselImport())

	assert.NoError(t, err)
	assert.True(t, record.Active)
	assert.Equal(t, int32(1), record.Version)
	// 2.52 + 0.000074*25 + 0.000074*298
	assert.InDelta(t, 2.543902, record.TotalCO2eFactor, 1e-9)
}

func TestImport_ExplicitTotalWins(t *testing.T) {
	svc := newTestService(t)

	req := dieselImport()
	total := 2.60
	req.TotalCO2eFactor = &total

	record, err := svc.Import(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 2.60, record.TotalCO2eFactor)
}

func TestImport_VersionsIncrementPerGroup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, dieselImport())
	assert.NoError(t, err)
	assert.Equal(t, int32(1), first.Version)

	second, err := svc.Import(ctx, dieselImport())
	assert.NoError(t, err)
	assert.Equal(t, int32(2), second.Version)

	// A different country starts its own version sequence.
	german := dieselImport()
	german.Country = "Germany"
	other, err := svc.Import(ctx, german)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), other.Version)
}

func TestImport_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*factordomain.ImportRequest)
		want   error
	}{
		{"bad category", func(r *factordomain.ImportRequest) { r.Category = "SCOPE_9" }, factordomain.ErrInvalidCategory},
		{"bad sub category", func(r *factordomain.ImportRequest) { r.SubCategory = "VIBES" }, factordomain.ErrInvalidSubCategory},
		{"missing fuel", func(r *factordomain.ImportRequest) { r.FuelType = " " }, factordomain.ErrInvalidFuelType},
		{"missing country", func(r *factordomain.ImportRequest) { r.Country = "" }, factordomain.ErrInvalidCountry},
		{"missing unit", func(r *factordomain.ImportRequest) { r.Unit = "" }, factordomain.ErrInvalidUnit},
		{"missing source", func(r *factordomain.ImportRequest) { r.Source = "" }, factordomain.ErrInvalidSource},
		{"negative factor", func(r *factordomain.ImportRequest) { r.CO2Factor = -1 }, factordomain.ErrInvalidFactor},
		{"inverted window", func(r *factordomain.ImportRequest) { r.ValidTo = r.ValidFrom.AddDate(-1, 0, 0) }, factordomain.ErrInvalidValidity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := dieselImport()
			tc.mutate(&req)
			_, err := svc.Import(ctx, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestImport_UnknownQualityDefaultsToMedium(t *testing.T) {
	svc := newTestService(t)

	req := dieselImport()
	req.DataQuality = "DUBIOUS"

	record, err := svc.Import(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, factordomain.DataQualityMedium, record.DataQuality)
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Import(ctx, dieselImport())
	assert.NoError(t, err)

	found, err := svc.GetByID(ctx, record.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = svc.GetByID(ctx, "999999999")
	assert.ErrorIs(t, err, factordomain.ErrNotFound)

	_, err = svc.GetByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, factordomain.ErrInvalidID)
}

func TestDeactivate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	record, err := svc.Import(ctx, dieselImport())
	assert.NoError(t, err)

	assert.NoError(t, svc.Deactivate(ctx, record.ID.String()))

	found, err := svc.GetByID(ctx, record.ID.String())
	assert.NoError(t, err)
	assert.False(t, found.Active)

	assert.ErrorIs(t, svc.Deactivate(ctx, "12345"), factordomain.ErrNotFound)
}

func TestList_Filters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, dieselImport())
	assert.NoError(t, err)

	gas := dieselImport()
	gas.FuelType = "Natural Gas"
	gas.Unit = "m3"
	_, err = svc.Import(ctx, gas)
	assert.NoError(t, err)

	result, err := svc.List(ctx, factordomain.ListRequest{Category: "scope_1", FuelType: "Diesel"})
	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "Diesel", result.Items[0].FuelType)
	assert.False(t, result.HasMore)
}

func TestList_CursorPaging(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fuels := []string{"Diesel", "Petrol", "Natural Gas", "LPG", "Kerosene"}
	for _, fuel := range fuels {
		req := dieselImport()
		req.FuelType = fuel
		_, err := svc.Import(ctx, req)
		assert.NoError(t, err)
	}

	first, err := svc.List(ctx, factordomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2},
	})
	assert.NoError(t, err)
	assert.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, factordomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: first.NextPageToken},
	})
	assert.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.True(t, second.HasMore)

	last, err := svc.List(ctx, factordomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: second.NextPageToken},
	})
	assert.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.NextPageToken)

	seen := map[string]bool{}
	for _, page := range [][]factordomain.EmissionFactorRecord{first.Items, second.Items, last.Items} {
		for _, record := range page {
			seen[record.FuelType] = true
		}
	}
	assert.Len(t, seen, len(fuels))

	_, err = svc.List(ctx, factordomain.ListRequest{
		Pagination: pagination.Pagination{PageToken: "%%%not-base64%%%"},
	})
	assert.ErrorIs(t, err, factordomain.ErrInvalidPageToken)
}
