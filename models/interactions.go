package models

// Interaction is a directed edge (userId -> otherId) tagged with a kind.
// Likes and passes are unilateral; match and unmatch records are always
// written symmetrically inside one atomic batch.
type Interaction struct {
	UserID    string `dynamodbav:"userId" json:"userId"`       // partition key
	RecordKey string `dynamodbav:"recordKey" json:"recordKey"` // sort key: "<kind>#<otherId>"
	OtherID   string `dynamodbav:"otherId" json:"otherId"`
	Kind      string `dynamodbav:"kind" json:"kind"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// InteractionRecordKey builds the sort key for an interaction record.
func InteractionRecordKey(kind, otherID string) string {
	return kind + "#" + otherID
}
