package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultExtractionOptions(t *testing.T) {
	opts := DefaultExtractionOptions()
	assert.True(t, opts.EnableOCR)
	assert.Zero(t, opts.MaxPages, "page cap comes from configuration")
	assert.False(t, opts.ForceTypeOverride)
	assert.False(t, opts.SkipSignatureValidation)
	assert.False(t, opts.UseDirectOCR)
}

func TestExtractionOptions_NotAWireType(t *testing.T) {
	typ := reflect.TypeOf(ExtractionOptions{})
	for i := 0; i < typ.NumField(); i++ {
		_, tagged := typ.Field(i).Tag.Lookup("json")
		assert.False(t, tagged, typ.Field(i).Name)
	}
}
