package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// numVal builds a numeric attribute value from its decimal string form.
func numVal(s string) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: s}
}
