// Package goquery implements posting detail page parsing using the goquery
// HTML library.
package goquery

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/franco-sebastiani/servir"
)

// Field labels as rendered on the posting detail page. Simple fields sit in
// a row with a sub-titulo label and a detalle-sp value; requirement fields
// are sub-titulo-2 labels followed by a detalle-sp sibling.
const (
	labelVacancies    = "CANTIDAD DE VACANTES"
	labelSalary       = "REMUNERACIÓN"
	labelStartDate    = "FECHA INICIO DE PUBLICACIÓN"
	labelEndDate      = "FECHA FIN DE PUBLICACIÓN"
	labelContractType = "NÚMERO DE CONVOCATORIA"

	labelExperience      = "EXPERIENCIA"
	labelAcademicProfile = "FORMACIÓN ACADÉMICA"
	labelSpecialization  = "ESPECIALIZACIÓN"
	labelKnowledge       = "CONOCIMIENTO"
	labelCompetencies    = "COMPETENCIAS"
)

var digitRun = regexp.MustCompile(`\d+`)

var _ servir.DetailParser = (*Parser)(nil)

// Parser extracts a raw posting from the HTML of a detail page.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extracts every posting field it can find. Missing fields come back
// empty rather than failing the parse; completeness is the validator's
// concern. It returns EINVALID only when the HTML is not a posting detail
// page at all.
func (p *Parser) Parse(html string, scrapedAt time.Time) (*servir.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, servir.Errorf(servir.EINVALID, "cannot parse detail page: %v", err)
	}

	posting := &servir.RawPosting{
		PostingID:       postingID(doc),
		JobTitle:        strings.TrimSpace(doc.Find("span.sp-aviso0").First().Text()),
		Institution:     strings.TrimSpace(doc.Find("span.sp-aviso").First().Text()),
		Vacancies:       simpleField(doc, labelVacancies),
		Salary:          simpleField(doc, labelSalary),
		StartDate:       simpleField(doc, labelStartDate),
		EndDate:         simpleField(doc, labelEndDate),
		ContractType:    simpleField(doc, labelContractType),
		Experience:      requirementField(doc, labelExperience),
		AcademicProfile: requirementField(doc, labelAcademicProfile),
		Specialization:  requirementField(doc, labelSpecialization),
		Knowledge:       requirementField(doc, labelKnowledge),
		Competencies:    requirementField(doc, labelCompetencies),
		ScrapedAt:       scrapedAt,
	}

	if posting.PostingID == "" && posting.JobTitle == "" && posting.Institution == "" {
		return nil, servir.Errorf(servir.EINVALID, "html is not a posting detail page")
	}
	return posting, nil
}

// simpleField finds a sub-titulo label and returns the detalle-sp value in
// the same row, or in the row after it. The portal's markup places the value
// in either position depending on the field.
func simpleField(doc *goquery.Document, label string) string {
	var value string
	doc.Find(".sub-titulo").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), label) {
			return true
		}
		row := s.Closest(".row")
		if v := strings.TrimSpace(row.Find(".detalle-sp").First().Text()); v != "" {
			value = v
		} else {
			value = strings.TrimSpace(row.Next().Find(".detalle-sp").First().Text())
		}
		return false
	})
	return value
}

// requirementField finds a sub-titulo-2 label and returns the first
// detalle-sp sibling after it.
func requirementField(doc *goquery.Document, label string) string {
	var value string
	doc.Find(".sub-titulo-2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), label) {
			return true
		}
		value = strings.TrimSpace(s.NextAllFiltered(".detalle-sp").First().Text())
		return false
	})
	return value
}

// postingID returns the first digit run of the sub-titulo-2 element that
// carries the posting number. Both the "N°" and "Nº" spellings appear on
// the portal.
func postingID(doc *goquery.Document) string {
	var id string
	doc.Find(".sub-titulo-2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "N°") && !strings.Contains(text, "Nº") {
			return true
		}
		id = digitRun.FindString(text)
		return false
	})
	return id
}
