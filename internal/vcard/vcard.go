// Package vcard renders profile and card records as vCard 3.0 text.
package vcard

import (
	"fmt"
	"strings"

	"namecard/internal/domain"
)

const (
	lineBreak   = "\r\n"
	unnamedUser = "Unnamed_User"
)

// Lines returns the vCard lines in output order. The PHOTO line is present
// only when photo is non-empty; every other line is always emitted, with an
// empty value if the field is unset. Values are written verbatim.
func Lines(p domain.Profile, c domain.Card, photo string) []string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + p.FullName,
		"N:" + p.FullName + ";;;;",
		"ORG:" + c.Company,
		"TITLE:" + c.Job,
		"TEL;TYPE=WORK,VOICE:" + c.Phone,
		"EMAIL;TYPE=PREF,INTERNET:" + p.Email,
		photoLine(photo),
		"URL:" + c.WebSite,
		"ADR;TYPE=WORK:;;" + c.Address + ";;;;",
		"NOTE:" + c.Bio,
		"END:VCARD",
	}

	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func photoLine(photo string) string {
	if photo == "" {
		return ""
	}
	return "PHOTO;ENCODING=b;TYPE=JPEG:" + photo
}

// Encode joins lines with CRLF. There is no trailing line break after
// END:VCARD.
func Encode(lines []string) string {
	return strings.Join(lines, lineBreak)
}

// Filename derives the download name for the card at position index.
// Only the first space of the name is replaced; "Jane Doe Smith" becomes
// "Jane_Doe Smith_1.vcf".
func Filename(fullName string, index int) string {
	name := fullName
	if name == "" {
		name = unnamedUser
	}
	name = strings.Replace(name, " ", "_", 1)
	return fmt.Sprintf("%s_%d.vcf", name, index+1)
}

// Build assembles the export artifact. photo is the Base64 avatar, or empty
// when there is none.
func Build(p domain.Profile, c domain.Card, index int, photo string) domain.ExportArtifact {
	return domain.ExportArtifact{
		Filename:    Filename(p.FullName, index),
		ContentType: domain.VCardContentType,
		Body:        []byte(Encode(Lines(p, c, photo))),
	}
}
