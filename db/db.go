package db

import (
	"strconv"

	"github.com/jsphweid/karadex/constants"
	"github.com/jsphweid/karadex/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// GetChartMetadatas fetches curated metadata for up to one batch of
// songs. Keys are collated "artist|title" strings; songs without a
// curated record are simply absent from the result.
func GetChartMetadatas(keys []string) map[string]model.ChartMetadata {
	if len(keys) > constants.MetadataBatchSize {
		panic("Not supposed to pass in more than 10 keys!")
	}

	res := make(map[string]model.ChartMetadata)

	if len(keys) == 0 {
		return res
	}

	var requestKeys []map[string]*dynamodb.AttributeValue
	for _, key := range keys {
		k := make(map[string]*dynamodb.AttributeValue)
		k["PK"] = &dynamodb.AttributeValue{
			S: aws.String(key),
		}
		requestKeys = append(requestKeys, k)
	}

	endpoint := constants.GetMetadataEndpoint()
	session, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}

	table := constants.GetMetadataTable()
	client := dynamodb.New(session)
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			table: {Keys: requestKeys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, v := range dbres.Responses[table] {
		var m model.ChartMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			m.Year = int(year)
		}
		if v["Genre"] != nil && v["Genre"].S != nil {
			m.Genre = *v["Genre"].S
		}
		if v["Language"] != nil && v["Language"].S != nil {
			m.Language = *v["Language"].S
		}
		res[*v["PK"].S] = m
	}

	return res
}
