package vcard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namecard/internal/domain"
)

func sampleProfile() domain.Profile {
	return domain.Profile{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Avatar:   "https://cdn.example.com/jane.jpg",
	}
}

func sampleCard() domain.Card {
	return domain.Card{
		CardType: domain.CardTypeCorporate,
		Job:      "Engineer",
		Company:  "Acme Corp",
		Phone:    "+855 12 345 678",
		WebSite:  "https://jane.dev",
		Address:  "12 Main St, Phnom Penh",
		Bio:      "Builds things.",
	}
}

func TestLinesWithoutPhoto(t *testing.T) {
	lines := Lines(sampleProfile(), sampleCard(), "")

	require.Len(t, lines, 12)
	assert.Equal(t, "BEGIN:VCARD", lines[0])
	assert.Equal(t, "VERSION:3.0", lines[1])
	assert.Equal(t, "END:VCARD", lines[len(lines)-1])
	for _, l := range lines {
		assert.False(t, strings.HasPrefix(l, "PHOTO"), "unexpected photo line %q", l)
	}
}

func TestLinesWithPhoto(t *testing.T) {
	lines := Lines(sampleProfile(), sampleCard(), "QUJD")

	require.Len(t, lines, 13)
	assert.Equal(t, "EMAIL;TYPE=PREF,INTERNET:jane@example.com", lines[7])
	assert.Equal(t, "PHOTO;ENCODING=b;TYPE=JPEG:QUJD", lines[8])
	assert.Equal(t, "URL:https://jane.dev", lines[9])
}

func TestLinesFieldsVerbatim(t *testing.T) {
	p, c := sampleProfile(), sampleCard()
	want := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Jane Doe",
		"N:Jane Doe;;;;",
		"ORG:Acme Corp",
		"TITLE:Engineer",
		"TEL;TYPE=WORK,VOICE:+855 12 345 678",
		"EMAIL;TYPE=PREF,INTERNET:jane@example.com",
		"URL:https://jane.dev",
		"ADR;TYPE=WORK:;;12 Main St, Phnom Penh;;;;",
		"NOTE:Builds things.",
		"END:VCARD",
	}
	assert.Equal(t, want, Lines(p, c, ""))
}

func TestLinesEmptyFields(t *testing.T) {
	lines := Lines(domain.Profile{}, domain.Card{}, "")

	require.Len(t, lines, 12)
	assert.Contains(t, lines, "ORG:")
	assert.Contains(t, lines, "NOTE:")
	assert.Contains(t, lines, "ADR;TYPE=WORK:;;;;;;")
	assert.Equal(t, "END:VCARD", lines[11])
}

func TestEncodeUsesCRLF(t *testing.T) {
	out := Encode(Lines(sampleProfile(), sampleCard(), "QUJD"))

	assert.Len(t, strings.Split(out, "\r\n"), 13)
	assert.False(t, strings.HasSuffix(out, "\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")

	out = Encode(Lines(sampleProfile(), sampleCard(), ""))
	assert.Len(t, strings.Split(out, "\r\n"), 12)
}

func TestFilename(t *testing.T) {
	cases := []struct {
		name     string
		fullName string
		index    int
		want     string
	}{
		{"simple", "Jane Doe", 0, "Jane_Doe_1.vcf"},
		// only the first space is replaced
		{"first space only", "Jane Doe Smith", 0, "Jane_Doe Smith_1.vcf"},
		{"fifth card", "Jane Doe", 4, "Jane_Doe_5.vcf"},
		{"no space", "Jane", 2, "Jane_3.vcf"},
		{"unnamed", "", 0, "Unnamed_User_1.vcf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Filename(tc.fullName, tc.index))
		})
	}
}

func TestFilenamePrefixKeepsLaterSpaces(t *testing.T) {
	name := Filename("Jane Doe Smith", 0)
	assert.True(t, strings.HasPrefix(name, "Jane_Doe Smith"))
	assert.True(t, strings.HasSuffix(name, "_1.vcf"))
	assert.True(t, strings.HasSuffix(Filename("Jane Doe Smith", 4), "_5.vcf"))
}

func TestBuild(t *testing.T) {
	art := Build(sampleProfile(), sampleCard(), 1, "")

	assert.Equal(t, "Jane_Doe_2.vcf", art.Filename)
	assert.Equal(t, "text/vcard; charset=utf-8", art.ContentType)

	body := string(art.Body)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCARD\r\n"))
	assert.True(t, strings.HasSuffix(body, "\r\nEND:VCARD"))
	assert.NotContains(t, body, "PHOTO")
}
