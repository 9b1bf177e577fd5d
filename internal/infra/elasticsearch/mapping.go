package elasticsearch

import "course-search-service/internal/domain"

// courseMapping is the index definition used by CreateIndex.
// Text fields carry a keyword subfield used for wildcard filters and sorting.
const courseMapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0
  },
  "mappings": {
    "properties": {
      "id": { "type": "keyword" },
      "title": {
        "type": "text",
        "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } }
      },
      "description": { "type": "text" },
      "category": {
        "type": "text",
        "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } }
      },
      "type": {
        "type": "text",
        "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } }
      },
      "gradeRange": { "type": "keyword" },
      "minAge": { "type": "integer" },
      "maxAge": { "type": "integer" },
      "price": { "type": "double" },
      "nextSessionDate": { "type": "date" },
      "schedule": { "type": "keyword" }
    }
  }
}`

// keywordFields are text fields whose exact value lives in the .keyword subfield.
var keywordFields = map[string]bool{
	domain.FieldTitle:    true,
	domain.FieldCategory: true,
	domain.FieldType:     true,
}
