package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReferenceTerm is one entry of the fixed reference dataset used by the
// fuzzy suggestion fallback when the store returns too few (or no) results.
// The dataset is configuration data, not code: deployments may replace it
// with LoadReferenceTerms without touching the ranking algorithm.
type ReferenceTerm struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	AlternativeNames []string `json:"alternative_names"`
}

// LoadReferenceTerms reads a reference dataset from a JSON file.
func LoadReferenceTerms(path string) ([]ReferenceTerm, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference terms: %w", err)
	}
	var terms []ReferenceTerm
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, fmt.Errorf("parse reference terms: %w", err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("reference terms file %s is empty", path)
	}
	return terms, nil
}

// DefaultReferenceTerms returns the built-in Romanian reference dataset.
// Order matters: the ranker breaks score ties by first-seen position.
func DefaultReferenceTerms() []ReferenceTerm {
	return []ReferenceTerm{
		{Name: "Hemoglobina", Category: "blood", AlternativeNames: []string{"Hb", "Hemoglobin"}},
		{Name: "Hemoleucograma", Category: "blood", AlternativeNames: []string{"CBC", "Hemograma"}},
		{Name: "Glicemia", Category: "blood", AlternativeNames: []string{"Glucoza", "Glucose"}},
		{Name: "Hemoglobina glicata", Category: "blood", AlternativeNames: []string{"HbA1c"}},
		{Name: "Colesterol", Category: "blood", AlternativeNames: []string{"Cholesterol"}},
		{Name: "Colesterol HDL", Category: "blood", AlternativeNames: []string{"HDL"}},
		{Name: "Colesterol LDL", Category: "blood", AlternativeNames: []string{"LDL"}},
		{Name: "Trigliceride", Category: "blood", AlternativeNames: []string{"Triglycerides"}},
		{Name: "Profil lipidic", Category: "blood", AlternativeNames: []string{"Lipidograma"}},
		{Name: "Creatinina", Category: "kidney", AlternativeNames: []string{"Creatinine"}},
		{Name: "Uree", Category: "kidney", AlternativeNames: []string{"Urea"}},
		{Name: "Acid uric", Category: "kidney", AlternativeNames: []string{"Uric acid"}},
		{Name: "Bilirubina totala", Category: "liver", AlternativeNames: []string{"Bilirubina"}},
		{Name: "Transaminaze", Category: "liver", AlternativeNames: []string{"ALT", "AST", "TGO", "TGP"}},
		{Name: "Gamma GT", Category: "liver", AlternativeNames: []string{"GGT"}},
		{Name: "Fosfataza alcalina", Category: "liver", AlternativeNames: []string{"ALP"}},
		{Name: "Proteine totale", Category: "blood", AlternativeNames: []string{"Total protein"}},
		{Name: "Albumina", Category: "blood", AlternativeNames: []string{"Albumin"}},
		{Name: "Fierul seric", Category: "blood", AlternativeNames: []string{"Sideremie"}},
		{Name: "Feritina", Category: "blood", AlternativeNames: []string{"Ferritin"}},
		{Name: "Transferina", Category: "blood", AlternativeNames: []string{"Transferrin"}},
		{Name: "Vitamina D", Category: "vitamins", AlternativeNames: []string{"25-OH Vitamina D"}},
		{Name: "Vitamina B12", Category: "vitamins", AlternativeNames: []string{"Cobalamina"}},
		{Name: "Homocisteina", Category: "blood", AlternativeNames: []string{"Homocysteine"}},
		{Name: "Proteina C reactiva", Category: "inflammation", AlternativeNames: []string{"PCR", "CRP"}},
		{Name: "VSH", Category: "inflammation", AlternativeNames: []string{"Viteza de sedimentare"}},
		{Name: "TSH", Category: "hormones", AlternativeNames: []string{"Tirotropina"}},
		{Name: "T3", Category: "hormones", AlternativeNames: []string{"Triiodotironina", "FT3"}},
		{Name: "T4", Category: "hormones", AlternativeNames: []string{"Tiroxina", "FT4"}},
		{Name: "Prolactina", Category: "hormones", AlternativeNames: []string{"Prolactin"}},
		{Name: "Testosteron", Category: "hormones", AlternativeNames: []string{"Testosterone"}},
		{Name: "Estradiol", Category: "hormones", AlternativeNames: []string{"E2"}},
		{Name: "Cortizol", Category: "hormones", AlternativeNames: []string{"Cortisol"}},
		{Name: "Insulina", Category: "hormones", AlternativeNames: []string{"Insulin"}},
		{Name: "FSH", Category: "hormones", AlternativeNames: []string{"Hormon foliculostimulant"}},
		{Name: "LH", Category: "hormones", AlternativeNames: []string{"Hormon luteinizant"}},
		{Name: "Progesteron", Category: "hormones", AlternativeNames: []string{"Progesterone"}},
		{Name: "Leucocite", Category: "blood", AlternativeNames: []string{"WBC"}},
		{Name: "Trombocite", Category: "blood", AlternativeNames: []string{"PLT"}},
		{Name: "Hematocrit", Category: "blood", AlternativeNames: []string{"Ht", "HCT"}},
		{Name: "Examen urina", Category: "urine", AlternativeNames: []string{"Sumar urina", "Sediment urinar"}},
		{Name: "Urocultura", Category: "urine", AlternativeNames: []string{"Urine culture"}},
		{Name: "HBsAg", Category: "infections", AlternativeNames: []string{"Antigen hepatita B"}},
		{Name: "Anti-HCV", Category: "infections", AlternativeNames: []string{"Hepatita C"}},
		{Name: "HIV", Category: "infections", AlternativeNames: []string{"Anti-HIV 1+2"}},
		{Name: "VDRL", Category: "infections", AlternativeNames: []string{"Sifilis", "RPR"}},
		{Name: "Clearance creatinina", Category: "kidney", AlternativeNames: []string{"eGFR"}},
	}
}
