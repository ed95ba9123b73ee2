package dto

// PublishIngestBookMessage is the payload carried on the async ingestion
// topic: the consumer fetches the raw text from the object store by key.
type PublishIngestBookMessage struct {
	Title     string `json:"title"`
	SourceKey string `json:"source_key"`
}
