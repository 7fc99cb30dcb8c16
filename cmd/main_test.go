package main

import (
	"testing"

	"sparmatch/backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestSetupGateway_DisabledWithoutToken(t *testing.T) {
	gateway := setupGateway(config.Config{}, nil)
	assert.Nil(t, gateway)
}
