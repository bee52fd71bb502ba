package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddresses(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateAddresses([]string{"a@x.com", "b@y.org"}))
	assert.NoError(t, ValidateAddresses(nil))

	assert.Error(t, ValidateAddresses([]string{"a@x.com\r\nBcc: evil@y.org"}))
	assert.Error(t, ValidateAddresses([]string{"a@x.com\n"}))
	assert.Error(t, ValidateAddresses([]string{"ok@x.com", "bad\r@y.org"}))
}
