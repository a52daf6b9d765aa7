package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/medbill/healthcare-billing/internal/models"
)

// IndexPatient writes the patient document, keyed by id so create and update
// both upsert.
func IndexPatient(ctx context.Context, es *elasticsearch.Client, index string, p *models.Patient) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("index patient: %w", err)
	}

	res, err := es.Index(index,
		bytes.NewReader(body),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index patient: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index patient: %s", res.Status())
	}
	return nil
}

// SearchPatients runs a fuzzy multi-field query over patient names and
// insurance fields.
func SearchPatients(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Patient, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"first_name^2", "last_name^2", "insurance_provider"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search patients: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search patients: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search patients: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Patient `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	patients := make([]models.Patient, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		patients[i] = hit.Source
	}
	return r.Hits.Total.Value, patients, nil
}
