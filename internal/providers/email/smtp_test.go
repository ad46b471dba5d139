package email

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessageWithAttachment(t *testing.T) {
	raw, err := buildMessage("factures@example.com", Message{
		To:       []string{"client@example.com"},
		Subject:  "Facture FAC-BJ-2026-000001 réglée",
		HTMLBody: "<p>Bonjour</p>",
		Attachments: []Attachment{{
			Filename:    "FAC-BJ-2026-000001.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4 test"),
		}},
	}, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Facture FAC-BJ-2026-000001 réglée", subject)
	assert.Equal(t, "client@example.com", parsed.Header.Get("To"))

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	htmlPart, err := mr.NextPart()
	require.NoError(t, err)
	assert.Contains(t, htmlPart.Header.Get("Content-Type"), "text/html")

	pdfPart, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "FAC-BJ-2026-000001.pdf", pdfPart.FileName())
	assert.Contains(t, pdfPart.Header.Get("Content-Type"), "application/pdf")

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSMTPSendRequiresRecipient(t *testing.T) {
	p := NewSMTP(Config{Host: "localhost", Port: 25, From: "a@b.c"})
	err := p.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSMTPSendDelegates(t *testing.T) {
	p := NewSMTP(Config{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "a@b.c"})

	var gotAddr string
	var gotTo []string
	p.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		assert.NotNil(t, a)
		assert.Equal(t, "a@b.c", from)
		return nil
	}

	require.NoError(t, p.Send(context.Background(), Message{To: []string{"c@d.e"}, Subject: "s", HTMLBody: "b"}))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"c@d.e"}, gotTo)
}
