package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctus-engine/internal/models"
	"auctus-engine/internal/utils"
)

func TestCSVParser_ValidFile(t *testing.T) {
	csvContent := `id,name,industry,location,revenue,employees,needs,offers,email
biz-101,Riverside Bakery,food,"Fredericton, NB",320000,12,packaging;marketing,bread|pastries,hello@riverside.example.ca
biz-102,Bay Robotics,software,"Halifax, NS","$1,200,000",75,,automation,`

	parser := utils.NewCSVParser()
	businesses, errs := parser.ParseBusinesses(csvContent)

	require.Empty(t, errs)
	require.Len(t, businesses, 2)

	bakery := businesses[0]
	assert.Equal(t, "biz-101", bakery.ID)
	assert.Equal(t, "Riverside Bakery", bakery.Name)
	assert.Equal(t, "Food & Beverage", bakery.Industry)
	assert.Equal(t, int64(320000), bakery.Revenue)
	assert.Equal(t, 12, bakery.Employees)
	assert.Equal(t, []string{"packaging", "marketing"}, bakery.Needs)
	assert.Equal(t, []string{"bread", "pastries"}, bakery.Offers)
	assert.Equal(t, "hello@riverside.example.ca", bakery.Email)
	assert.Equal(t, models.Eligibility{
		IsNewBrunswick:   true,
		RevenueUnder500k: true,
		EmployeesUnder50: true,
		Industries:       []string{"Food & Beverage"},
	}, bakery.Eligibility)

	robotics := businesses[1]
	assert.Equal(t, "Technology", robotics.Industry)
	assert.Equal(t, int64(1200000), robotics.Revenue)
	assert.Equal(t, []string{}, robotics.Needs)
	assert.False(t, robotics.Eligibility.IsNewBrunswick)
	assert.False(t, robotics.Eligibility.RevenueUnder500k)
	assert.False(t, robotics.Eligibility.EmployeesUnder50)
}

func TestCSVParser_ColumnAliases(t *testing.T) {
	csvContent := `Company,Sector,City,Annual Revenue,Headcount,Industries,Founded
Fundy Kayak,tourism,"Saint John, New Brunswick",250k,8,Tourism;hospitality,2016`

	parser := utils.NewCSVParser()
	businesses, errs := parser.ParseBusinesses(csvContent)

	require.Empty(t, errs)
	require.Len(t, businesses, 1)

	b := businesses[0]
	assert.Equal(t, "Fundy Kayak", b.Name)
	assert.Equal(t, int64(250000), b.Revenue)
	assert.Equal(t, 2016, b.YearEstablished)
	assert.True(t, b.Eligibility.IsNewBrunswick)
	assert.Equal(t, []string{"Tourism", "Hospitality"}, b.Eligibility.Industries)
	assert.True(t, strings.HasPrefix(b.ID, "biz-"))
	assert.Len(t, b.ID, len("biz-")+8)
}

func TestCSVParser_MissingRequiredColumns(t *testing.T) {
	csvContent := `name,industry,location,employees
Solo,retail,"Moncton, NB",3`

	parser := utils.NewCSVParser()
	businesses, errs := parser.ParseBusinesses(csvContent)

	assert.Empty(t, businesses)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], utils.ErrMissingColumns)
	assert.Contains(t, errs[0].Error(), "revenue")
}

func TestCSVParser_EmptyFile(t *testing.T) {
	parser := utils.NewCSVParser()
	businesses, errs := parser.ParseBusinesses("  ")

	assert.Empty(t, businesses)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], utils.ErrEmptyCSV)
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	parser := utils.NewCSVParser()
	businesses, errs := parser.ParseBusinesses("name,industry,location,revenue,employees")

	assert.Empty(t, businesses)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], utils.ErrNoDataRows)
}

func TestCSVParser_InvalidRowsAreSkipped(t *testing.T) {
	csvContent := `id,name,industry,location,revenue,employees
biz-1,Good One,retail,"Moncton, NB",100000,4
biz-2,Bad Revenue,retail,"Moncton, NB",lots,4
biz-3,,retail,"Moncton, NB",100000,4
biz-1,Duplicate,retail,"Moncton, NB",100000,4
biz-5,Negative,retail,"Moncton, NB",100000,-2`

	parser := utils.NewCSVParser()
	businesses, errs := parser.ParseBusinesses(csvContent)

	require.Len(t, businesses, 1)
	assert.Equal(t, "biz-1", businesses[0].ID)

	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "line 3: invalid revenue")
	assert.ErrorIs(t, errs[1], models.ErrMissingName)
	assert.ErrorIs(t, errs[2], models.ErrDuplicateID)
	assert.ErrorIs(t, errs[3], models.ErrInvalidEmployees)
}

func TestValidateCSVStructure(t *testing.T) {
	valid := utils.ValidateCSVStructure("business name,sector,city,sales,staff\nA,retail,x,1,1\nB,retail,y,2,2")
	assert.True(t, valid.Valid)
	assert.Equal(t, 2, valid.RowCount)
	assert.Empty(t, valid.MissingColumns)

	missing := utils.ValidateCSVStructure("name,industry\nA,retail")
	assert.False(t, missing.Valid)
	assert.Equal(t, []string{"location", "revenue", "employees"}, missing.MissingColumns)

	empty := utils.ValidateCSVStructure("")
	assert.False(t, empty.Valid)
	assert.Equal(t, []string{"empty file"}, empty.Errors)
}
