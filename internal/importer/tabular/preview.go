package tabular

// Preview summarizes an upload so an operator can build the field mapping
// without opening the file.
type Preview struct {
	Fieldnames       []string            `json:"fieldnames"`
	SampleRows       []map[string]string `json:"sample_rows"`
	SuggestedMapping map[string]string   `json:"suggested_mapping"`
}

const previewSampleRows = 3

// BuildPreview parses the upload and returns the headers, the first few
// rows and a best-guess mapping for the standard import fields.
func BuildPreview(filename string, data []byte) (Preview, error) {
	table, err := Read(filename, data)
	if err != nil {
		return Preview{}, err
	}

	samples := table.Rows
	if len(samples) > previewSampleRows {
		samples = samples[:previewSampleRows]
	}

	return Preview{
		Fieldnames:       table.Headers,
		SampleRows:       samples,
		SuggestedMapping: suggestMapping(table.Headers),
	}, nil
}

func suggestMapping(headers []string) map[string]string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	pick := func(field string, fallbackIdx int) string {
		if _, ok := present[field]; ok {
			return field
		}
		if fallbackIdx >= 0 && fallbackIdx < len(headers) {
			return headers[fallbackIdx]
		}
		return ""
	}
	return map[string]string{
		"name":       pick("name", 0),
		"price":      pick("price", 1),
		"currency":   pick("currency", -1),
		"category":   pick("category", -1),
		"price_type": pick("price_type", -1),
	}
}
