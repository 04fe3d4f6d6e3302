package jurisdiction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictio/lexcompare/pkg/errors"
)

func TestStaticProvider_RulesFor(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	r, err := p.RulesFor(ctx, "vic")
	require.NoError(t, err)
	assert.Equal(t, "VIC", r.State)
	assert.Equal(t, 3, r.CoolingOffDays)
	assert.NotEmpty(t, r.ActReferences)

	_, err = p.RulesFor(ctx, "ZZ")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeJurisdictionUnknown, errors.GetCode(err))
}

func TestStaticProvider_States(t *testing.T) {
	p := NewStaticProvider()
	states, err := p.States(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ACT", "NSW", "NT", "QLD", "SA", "TAS", "VIC", "WA"}, states)
}
