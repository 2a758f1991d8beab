package entitlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/application/entitlement"
	"github.com/jhoicas/schoolhub-api/internal/domain"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/memory"
)

const (
	schoolA = "11111111-1111-1111-1111-111111111111"
	schoolB = "22222222-2222-2222-2222-222222222222"
	mathID  = "aaaaaaaa-0000-0000-0000-000000000001"
	libID   = "aaaaaaaa-0000-0000-0000-000000000002"
)

type fixture struct {
	store *memory.Store
	uc    *entitlement.EntitlementUseCase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	now := time.Now()
	for _, s := range []entity.School{
		{ID: schoolA, Name: "Alpha", ShortName: "alpha", Status: entity.SchoolStatusActive, PaymentStatus: entity.PaymentStatusPaid, CreatedAt: now},
		{ID: schoolB, Name: "Beta", ShortName: "beta", Status: entity.SchoolStatusActive, PaymentStatus: entity.PaymentStatusPaid, CreatedAt: now},
	} {
		s := s
		require.NoError(t, r.Schools.Create(ctx, &s))
	}
	require.NoError(t, r.Features.Create(ctx, &entity.Feature{
		ID: mathID, Key: "math", Name: "Mathematics", Price: 10000, PricingType: entity.PricingPerStudent, IsActive: true,
		MenuLinks: []entity.MenuLink{{Name: "Grades", Href: "/math/grades", Enabled: true}, {Name: "Legacy", Href: "/math/old", Enabled: false}},
	}))
	require.NoError(t, r.Features.Create(ctx, &entity.Feature{
		ID: libID, Key: "library", Name: "Library", Price: 5000, PricingType: entity.PricingPerSchool, IsActive: true,
		MenuLinks: []entity.MenuLink{{Name: "Books", Href: "/library", Enabled: true}},
	}))
	return fixture{
		store: store,
		uc:    entitlement.NewEntitlementUseCase(r.Entitlements, r.Features, r.Schools, store),
	}
}

// ────────────────────────────────────────────────────────────────────────────
// ToggleFeature
// ────────────────────────────────────────────────────────────────────────────

func TestToggleFeature_IdempotenteUnaSolaFila(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.uc.ToggleFeature(ctx, schoolA, mathID, true)
	require.NoError(t, err)
	_, err = fx.uc.ToggleFeature(ctx, schoolA, mathID, true)
	require.NoError(t, err)

	all, err := fx.uc.GetSchoolFeatures(ctx, schoolA)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Enabled)
}

func TestToggleFeature_EscuelaOFuncionalidadInexistente(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.uc.ToggleFeature(ctx, "missing", mathID, true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = fx.uc.ToggleFeature(ctx, schoolA, "missing", true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetEnabledSchoolFeatures_SoloHabilitadas(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	_, err := fx.uc.ToggleFeature(ctx, schoolA, mathID, true)
	require.NoError(t, err)
	_, err = fx.uc.ToggleFeature(ctx, schoolA, libID, false)
	require.NoError(t, err)

	enabled, err := fx.uc.GetEnabledSchoolFeatures(ctx, schoolA)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "math", enabled[0].Feature.Key)

	all, err := fx.uc.GetSchoolFeatures(ctx, schoolA)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestToggleFeatureByKey_Acciones(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	res, err := fx.uc.ToggleFeatureByKey(ctx, schoolA, "library", entitlement.ActionEnable)
	require.NoError(t, err)
	assert.True(t, res.Enabled)

	res, err = fx.uc.ToggleFeatureByKey(ctx, schoolA, "library", entitlement.ActionDisable)
	require.NoError(t, err)
	assert.False(t, res.Enabled)

	_, err = fx.uc.ToggleFeatureByKey(ctx, schoolA, "library", "pause")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = fx.uc.ToggleFeatureByKey(ctx, schoolA, "nope", entitlement.ActionEnable)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ────────────────────────────────────────────────────────────────────────────
// BulkAssignFeatures
// ────────────────────────────────────────────────────────────────────────────

func TestBulkAssignFeatures_ProductoCruzado(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	res, err := fx.uc.BulkAssignFeatures(ctx, dto.BulkAssignRequest{
		SchoolIDs:  []string{schoolA, schoolB, schoolA},
		FeatureIDs: []string{mathID, libID},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Assigned)

	for _, sid := range []string{schoolA, schoolB} {
		enabled, err := fx.uc.GetEnabledSchoolFeatures(ctx, sid)
		require.NoError(t, err)
		assert.Len(t, enabled, 2)
	}
}

func TestBulkAssignFeatures_IDInexistenteNoEscribeNada(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.uc.BulkAssignFeatures(ctx, dto.BulkAssignRequest{
		SchoolIDs:  []string{schoolA},
		FeatureIDs: []string{mathID, "missing"},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	all, err := fx.uc.GetSchoolFeatures(ctx, schoolA)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ────────────────────────────────────────────────────────────────────────────
// Setup y menú
// ────────────────────────────────────────────────────────────────────────────

func TestFeatureSetup_DefaultYPersonalizado(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.uc.GetFeatureSetup(ctx, schoolA, mathID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "sin asignación no hay setup")

	_, err = fx.uc.ToggleFeature(ctx, schoolA, mathID, true)
	require.NoError(t, err)

	def, err := fx.uc.GetFeatureSetup(ctx, schoolA, mathID)
	require.NoError(t, err)
	assert.True(t, def.IsDefault)
	assert.Len(t, def.MenuLinks, 2)

	_, err = fx.uc.SaveFeatureSetup(ctx, schoolA, mathID, dto.SaveFeatureSetupRequest{
		MenuLinks: []dto.MenuLinkDTO{{Name: "Scores", Href: "/math/scores"}},
	})
	require.NoError(t, err)

	custom, err := fx.uc.GetFeatureSetup(ctx, schoolA, mathID)
	require.NoError(t, err)
	assert.False(t, custom.IsDefault)
	require.Len(t, custom.MenuLinks, 1)
	assert.Equal(t, "Scores", custom.MenuLinks[0].Name)
	assert.True(t, custom.MenuLinks[0].Enabled)

	// Deshabilitar la asignación oculta la personalización.
	_, err = fx.uc.ToggleFeature(ctx, schoolA, mathID, false)
	require.NoError(t, err)
	_, err = fx.uc.GetFeatureSetup(ctx, schoolA, mathID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetSchoolMenu_FiltraDeshabilitados(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	_, err := fx.uc.ToggleFeature(ctx, schoolA, mathID, true)
	require.NoError(t, err)
	_, err = fx.uc.ToggleFeature(ctx, schoolA, libID, false)
	require.NoError(t, err)

	menu, err := fx.uc.GetSchoolMenu(ctx, schoolA)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "math", menu[0].FeatureKey)
	require.Len(t, menu[0].Links, 1)
	assert.Equal(t, "/math/grades", menu[0].Links[0].Href)
}

func TestHasEnabledFeature(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	_, err := fx.uc.ToggleFeature(ctx, schoolA, mathID, true)
	require.NoError(t, err)

	ok, err := fx.uc.HasEnabledFeature(ctx, schoolA, "math")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fx.uc.HasEnabledFeature(ctx, schoolA, "library")
	require.NoError(t, err)
	assert.False(t, ok)
}
