package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// classificationContainerPaths locate the classification nodes within a
// response, in preference order. The first path yielding any nodes wins
// exclusively; paths are never merged.
var classificationContainerPaths = []string{
	"classification-cpc",
	"cpc",
	"classification",
}

// mainCodeLength is the prefix of the first sufficiently long code used as
// the main classification.
const mainCodeLength = 4

// ClassificationEnricher fetches cooperative-classification codes for one
// document identifier.
type ClassificationEnricher struct {
	client *Client
	logger logging.Logger
}

// NewClassificationEnricher builds an enricher over the published-data
// classifications sub-resource.
func NewClassificationEnricher(client *Client, logger logging.Logger) *ClassificationEnricher {
	return &ClassificationEnricher{client: client, logger: logger.Named("cpc")}
}

// Enrich fetches ClassificationFields for the identifier, with the same
// URL-variant fallback as the biblio enricher. Within a response the first
// productive container path supplies the nodes; each node's symbol comes
// from its own ordered chain. Symbols are stripped of internal whitespace
// and slashes. The error is non-nil only when every variant failed.
func (e *ClassificationEnricher) Enrich(ctx context.Context, id string) (patent.ClassificationFields, error) {
	var lastErr error
	for _, scheme := range identifierSchemes {
		url := fmt.Sprintf("%s/rest-services/published-data/publication/%s/%s/classifications",
			e.client.baseURL, scheme, id)

		resp, err := e.client.get(ctx, url, "classifications")
		if err != nil {
			lastErr = err
			continue
		}
		if !resp.ok() {
			lastErr = errors.Newf(errors.CodeClassificationFetch, "classifications returned status %d", resp.Status)
			continue
		}

		root, err := ParseXML(resp.Body)
		if err != nil {
			lastErr = errors.Wrap(err, errors.CodeParse, "classifications response is not valid XML")
			continue
		}

		fields := extractClassifications(root)
		e.logger.Debug("classifications enriched",
			logging.String("doc", id),
			logging.String("scheme", scheme),
			logging.Int("codes", len(fields.FullCodes)),
		)
		return fields, nil
	}

	return patent.ClassificationFields{}, errors.Wrap(lastErr, errors.CodeClassificationFetch, "all classification variants failed").
		WithDetail("doc=" + id)
}

// extractClassifications walks the container and symbol chains over a
// parsed response.
func extractClassifications(root *Node) patent.ClassificationFields {
	var fields patent.ClassificationFields

	for _, containerPath := range classificationContainerPaths {
		nodes := root.FindAll(containerPath)
		if len(nodes) == 0 {
			continue
		}

		for _, node := range nodes {
			code := cleanSymbol(extractSymbol(node))
			if code == "" {
				continue
			}
			fields.FullCodes = append(fields.FullCodes, code)
			if fields.MainCode == "" && len(code) >= mainCodeLength {
				fields.MainCode = code[:mainCodeLength]
			}
		}
		break
	}

	return fields
}

// extractSymbol probes one classification node for its code text: a symbol
// or cpc-symbol child first, then any non-blank descendant text, then the
// node's own text.
func extractSymbol(node *Node) string {
	if v := node.FirstText("symbol"); v != "" {
		return v
	}
	if v := node.FirstText("cpc-symbol"); v != "" {
		return v
	}
	return node.DeepText()
}

// cleanSymbol removes internal whitespace and slash characters so codes
// compare and truncate consistently.
func cleanSymbol(raw string) string {
	return strings.NewReplacer(" ", "", "/", "", "\t", "", "\n", "").Replace(raw)
}
