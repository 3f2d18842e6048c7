package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"nilpfstore/internal/models"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LicenseRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    LicenseRepository
	context context.Context
}

func (suite *LicenseRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewLicenseRepo(mock)
	suite.context = context.Background()
}

func (suite *LicenseRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestLicenseRepoTestSuite(t *testing.T) {
	suite.Run(t, new(LicenseRepoTestSuite))
}

func sampleLicense() *models.License {
	return &models.License{
		Reference:       "8GK12345XY678901L",
		CreatedAt:       time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		PayerEmail:      "buyer@example.com",
		PayerName:       "Jordan Buyer",
		PropertyAddress: "12 Main St, Columbus, OH, 43004",
		PropertyState:   "OH",
		LicenseKey:      "NILPF-OH-20260314150926-A1B2C3",
	}
}

func (suite *LicenseRepoTestSuite) TestUpsert_Insert() {
	license := sampleLicense()

	suite.mock.ExpectExec(`INSERT INTO licenses \(reference, created_at, payer_email, payer_name, property_address, property_state, license_key\)`).
		WithArgs(license.Reference, license.CreatedAt, license.PayerEmail, license.PayerName, license.PropertyAddress, license.PropertyState, license.LicenseKey).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Upsert(suite.context, license)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *LicenseRepoTestSuite) TestUpsert_OverwritesExistingReference() {
	license := sampleLicense()
	license.LicenseKey = "NILPF-OH-20260314160000-A1B2C3"

	// Conflicting reference still reports one affected row
	suite.mock.ExpectExec(`ON CONFLICT \(reference\) DO UPDATE SET`).
		WithArgs(license.Reference, license.CreatedAt, license.PayerEmail, license.PayerName, license.PropertyAddress, license.PropertyState, license.LicenseKey).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Upsert(suite.context, license)
	assert.NoError(suite.T(), err)
}

func (suite *LicenseRepoTestSuite) TestGetByReference_Found() {
	license := sampleLicense()

	rows := pgxmock.NewRows([]string{"reference", "created_at", "payer_email", "payer_name", "property_address", "property_state", "license_key"}).
		AddRow(license.Reference, license.CreatedAt, license.PayerEmail, license.PayerName, license.PropertyAddress, license.PropertyState, license.LicenseKey)

	suite.mock.ExpectQuery(`SELECT reference, created_at, payer_email, payer_name, property_address, property_state, license_key`).
		WithArgs(license.Reference).
		WillReturnRows(rows)

	got, err := suite.repo.GetByReference(suite.context, license.Reference)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), got)
	assert.Equal(suite.T(), license.LicenseKey, got.LicenseKey)
	assert.Equal(suite.T(), license.PropertyState, got.PropertyState)
}

func (suite *LicenseRepoTestSuite) TestGetByReference_NotFound() {
	suite.mock.ExpectQuery(`SELECT reference, created_at, payer_email, payer_name, property_address, property_state, license_key`).
		WithArgs("missing-reference").
		WillReturnRows(pgxmock.NewRows([]string{"reference", "created_at", "payer_email", "payer_name", "property_address", "property_state", "license_key"}))

	got, err := suite.repo.GetByReference(suite.context, "missing-reference")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *LicenseRepoTestSuite) TestGetByReference_QueryError() {
	suite.mock.ExpectQuery(`SELECT reference, created_at, payer_email, payer_name, property_address, property_state, license_key`).
		WithArgs("any").
		WillReturnError(errors.New("connection refused"))

	got, err := suite.repo.GetByReference(suite.context, "any")
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), got)
}

func (suite *LicenseRepoTestSuite) TestList() {
	first := sampleLicense()
	second := sampleLicense()
	second.Reference = "cs_test_b1c2d3"
	second.PropertyState = "TX"

	rows := pgxmock.NewRows([]string{"reference", "created_at", "payer_email", "payer_name", "property_address", "property_state", "license_key"}).
		AddRow(first.Reference, first.CreatedAt, first.PayerEmail, first.PayerName, first.PropertyAddress, first.PropertyState, first.LicenseKey).
		AddRow(second.Reference, second.CreatedAt, second.PayerEmail, second.PayerName, second.PropertyAddress, second.PropertyState, second.LicenseKey)

	suite.mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(20, 0).
		WillReturnRows(rows)

	licenses, err := suite.repo.List(suite.context, 20, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), licenses, 2)
	assert.Equal(suite.T(), "TX", licenses[1].PropertyState)
}
