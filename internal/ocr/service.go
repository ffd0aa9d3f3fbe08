package ocr

// Service bundles text extraction with candidate detection. Client may be
// nil, in which case image uploads are rejected but PDFs and plain text
// still work.
type Service struct {
	Client Recognizer
}

// ProcessResult is the payload of a full OCR pass.
type ProcessResult struct {
	RawText    string   `json:"raw_text"`
	Analyses   []string `json:"analyses"`
	FoundCount int      `json:"found_count"`
}

// Process extracts raw text and runs candidate detection over it.
func (s *Service) Process(rawText string) ProcessResult {
	candidates := ExtractCandidates(rawText)
	return ProcessResult{
		RawText:    rawText,
		Analyses:   candidates,
		FoundCount: len(candidates),
	}
}
