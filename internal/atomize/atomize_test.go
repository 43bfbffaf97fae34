package atomize_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/ladle/internal/atomize"
)

func TestSplit_Sequential(t *testing.T) {
	p := atomize.DefaultPolicy()

	got := p.Split("Preheat the oven to 350F, then grease the pan")
	assert.Equal(t, []string{"Preheat the oven to 350F", "Grease the pan"}, got)

	got = p.Split("Whisk the eggs and then fold in the flour; rest for 10 minutes.")
	assert.Equal(t, []string{"Whisk the eggs", "Fold in the flour", "Rest for 10 minutes"}, got)
}

func TestSplit_CoordinatingAndIsOneAction(t *testing.T) {
	p := atomize.DefaultPolicy()
	got := p.Split("Mix flour and eggs")
	assert.Equal(t, []string{"Mix flour and eggs"}, got)
}

func TestSplit_NoConjunction(t *testing.T) {
	p := atomize.DefaultPolicy()
	got := p.Split("Bake for 30 minutes")
	assert.Equal(t, []string{"Bake for 30 minutes"}, got)
}

func TestSplit_WhileIsSimultaneous(t *testing.T) {
	p := atomize.DefaultPolicy()
	got := p.Split("Stir constantly while the sauce thickens")
	assert.Equal(t, []string{"Stir constantly", "The sauce thickens"}, got)
}

func TestSplit_CustomPolicy(t *testing.T) {
	p := atomize.Policy{Conjunctions: []string{" until "}}
	got := p.Split("Knead until the dough is smooth")
	assert.Equal(t, []string{"Knead", "The dough is smooth"}, got)
}

func TestSplit_MultibyteLeadingRune(t *testing.T) {
	p := atomize.DefaultPolicy()

	got := p.Split("émincer les échalotes then sauter à feu doux")
	assert.Equal(t, []string{"Émincer les échalotes", "Sauter à feu doux"}, got)
	for _, s := range got {
		assert.True(t, utf8.ValidString(s), "fragment %q must stay valid UTF-8", s)
	}
}

func TestSplitAll_PreservesOrder(t *testing.T) {
	p := atomize.DefaultPolicy()
	got := p.SplitAll([]string{
		"Boil water, then add salt",
		"Cook the pasta",
	})
	assert.Equal(t, []string{"Boil water", "Add salt", "Cook the pasta"}, got)
}
