package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickToChatLink(t *testing.T) {
	link, err := ClickToChatLink("+229 97 00-00-00", "Facture FAC-1 : 3540.00 XOF & merci")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/22997000000?text=Facture%20FAC-1%20%3A%203540.00%20XOF%20%26%20merci", link)
}

func TestClickToChatLinkWithoutText(t *testing.T) {
	link, err := ClickToChatLink("22997000000", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/22997000000", link)
}

func TestClickToChatLinkInvalidPhone(t *testing.T) {
	_, err := ClickToChatLink(" + ", "hello")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
