package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigContextValidate(t *testing.T) {
	cases := []struct {
		name    string
		ctx     ConfigContext
		wantErr bool
	}{
		{"user with id", ConfigContext{ScopeType: ScopeUser, ScopeID: "u1"}, false},
		{"role with id", ConfigContext{ScopeType: ScopeRole, ScopeID: "tenant"}, false},
		{"org with id", ConfigContext{ScopeType: ScopeOrg, ScopeID: "acme"}, false},
		{"global without id", GlobalContext(), false},
		{"user without id", ConfigContext{ScopeType: ScopeUser}, true},
		{"global with id", ConfigContext{ScopeType: ScopeGlobal, ScopeID: "x"}, true},
		{"unknown scope", ConfigContext{ScopeType: "team", ScopeID: "x"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ctx.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigContextPriorityOrdering(t *testing.T) {
	user := ConfigContext{ScopeType: ScopeUser, ScopeID: "u"}
	role := ConfigContext{ScopeType: ScopeRole, ScopeID: "r"}
	org := ConfigContext{ScopeType: ScopeOrg, ScopeID: "o"}

	assert.Less(t, user.Priority(), role.Priority())
	assert.Less(t, role.Priority(), org.Priority())
	assert.Less(t, org.Priority(), GlobalContext().Priority())
	assert.Greater(t, ConfigContext{ScopeType: "bogus"}.Priority(), GlobalContext().Priority())
}

func TestConfigContextString(t *testing.T) {
	assert.Equal(t, "user:u1", ConfigContext{ScopeType: ScopeUser, ScopeID: "u1"}.String())
	assert.Equal(t, "global", GlobalContext().String())
}

func TestConfigDocumentCloneIsIndependent(t *testing.T) {
	doc := ConfigDocument{
		Theme: Theme{
			Typography: Typography{
				FontSizes:   map[string]string{"base": "1rem"},
				FontWeights: map[string]int{"bold": 700},
			},
		},
	}

	clone := doc.Clone()
	clone.Theme.Typography.FontSizes["base"] = "2rem"
	clone.Theme.Typography.FontWeights["bold"] = 900

	assert.Equal(t, "1rem", doc.Theme.Typography.FontSizes["base"])
	assert.Equal(t, 700, doc.Theme.Typography.FontWeights["bold"])
}
