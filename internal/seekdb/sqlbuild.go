package seekdb

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxIdentifierLength matches the seekdb limit for table and index names.
const maxIdentifierLength = 64

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidationError reports an argument rejected before any SQL was built.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidateIdentifier checks a name that will be interpolated into DDL or
// DML as an identifier.
func ValidateIdentifier(value, field string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	if len(value) > maxIdentifierLength {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("length cannot exceed %d characters", maxIdentifierLength)}
	}
	if !identifierPattern.MatchString(value) {
		return &ValidationError{Field: field, Reason: "contains invalid characters"}
	}
	return nil
}

// quoteLiteral renders a string literal with single quotes doubled.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdent wraps an already validated identifier in backticks.
func quoteIdent(s string) string {
	return "`" + s + "`"
}

// vectorLiteral renders a float slice as the seekdb vector literal
// '[v1,v2,...]'.
func vectorLiteral(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "'[" + strings.Join(parts, ",") + "]'"
}

// collectionDistances maps the collection API metric names to the names the
// vector index syntax expects.
var collectionDistances = map[string]string{
	"l2":     "l2",
	"cosine": "cosine",
	"ip":     "inner_product",
}

// CreateCollectionSQL returns the statements that create a collection: a
// table with id, document, metadata and embedding columns, and an HNSW
// vector index on the embedding.
func CreateCollectionSQL(name string, dimension int, distance string) ([]string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return nil, err
	}
	if dimension <= 0 {
		return nil, &ValidationError{Field: "dimension", Reason: "must be positive"}
	}
	metric, ok := collectionDistances[distance]
	if !ok {
		return nil, &ValidationError{Field: "distance", Reason: "must be one of l2, cosine, ip"}
	}
	table := quoteIdent(name)
	createTable := fmt.Sprintf(
		"CREATE TABLE %s (id VARCHAR(255) PRIMARY KEY, document LONGTEXT, metadata JSON, embedding VECTOR(%d))",
		table, dimension)
	createIndex := fmt.Sprintf(
		"CREATE VECTOR INDEX %s ON %s (embedding) WITH (distance=%s, type=hnsw, lib=vsag)",
		quoteIdent("idx_"+name+"_embedding"), table, metric)
	return []string{createTable, createIndex}, nil
}

// ListCollectionsSQL selects the tables in the current database that carry
// an embedding column, which is how collections are recognized.
func ListCollectionsSQL() string {
	return "SELECT DISTINCT table_name FROM information_schema.columns " +
		"WHERE table_schema = DATABASE() AND column_name = 'embedding' ORDER BY table_name"
}

// PeekCollectionSQL samples rows from a collection.
func PeekCollectionSQL(name string, limit int) (string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return "", err
	}
	if limit <= 0 {
		limit = 3
	}
	return fmt.Sprintf("SELECT id, document, metadata FROM %s LIMIT %d", quoteIdent(name), limit), nil
}

// DropCollectionSQL drops a collection table.
func DropCollectionSQL(name string) (string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return "", err
	}
	return "DROP TABLE " + quoteIdent(name), nil
}

// InsertSQL builds a multi-row insert of ids with optional documents and
// metadata. Documents and metadatas, when given, must match ids in length.
func InsertSQL(name string, ids, documents []string, metadatas []map[string]any) (string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", &ValidationError{Field: "ids", Reason: "cannot be empty"}
	}
	if documents != nil && len(documents) != len(ids) {
		return "", &ValidationError{Field: "documents", Reason: "must match ids in length"}
	}
	if metadatas != nil && len(metadatas) != len(ids) {
		return "", &ValidationError{Field: "metadatas", Reason: "must match ids in length"}
	}

	rows := make([]string, len(ids))
	for i, id := range ids {
		doc := "NULL"
		if documents != nil {
			doc = quoteLiteral(documents[i])
		}
		meta := "NULL"
		if metadatas != nil {
			data, err := json.Marshal(metadatas[i])
			if err != nil {
				return "", fmt.Errorf("marshal metadata: %w", err)
			}
			meta = quoteLiteral(string(data))
		}
		rows[i] = fmt.Sprintf("(%s, %s, %s)", quoteLiteral(id), doc, meta)
	}
	return fmt.Sprintf("INSERT INTO %s (id, document, metadata) VALUES %s",
		quoteIdent(name), strings.Join(rows, ", ")), nil
}

// UpdateSQL builds one UPDATE statement per id, setting the document and
// metadata columns that were provided.
func UpdateSQL(name string, ids, documents []string, metadatas []map[string]any) ([]string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "ids", Reason: "cannot be empty"}
	}
	if documents == nil && metadatas == nil {
		return nil, &ValidationError{Field: "documents", Reason: "or metadatas must be provided"}
	}
	if documents != nil && len(documents) != len(ids) {
		return nil, &ValidationError{Field: "documents", Reason: "must match ids in length"}
	}
	if metadatas != nil && len(metadatas) != len(ids) {
		return nil, &ValidationError{Field: "metadatas", Reason: "must match ids in length"}
	}

	stmts := make([]string, len(ids))
	for i, id := range ids {
		var sets []string
		if documents != nil {
			sets = append(sets, "document = "+quoteLiteral(documents[i]))
		}
		if metadatas != nil {
			data, err := json.Marshal(metadatas[i])
			if err != nil {
				return nil, fmt.Errorf("marshal metadata: %w", err)
			}
			sets = append(sets, "metadata = "+quoteLiteral(string(data)))
		}
		stmts[i] = fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
			quoteIdent(name), strings.Join(sets, ", "), quoteLiteral(id))
	}
	return stmts, nil
}

// DeleteSQL builds a delete by ids and/or metadata and document filters. At
// least one selector is required.
func DeleteSQL(name string, ids []string, where, whereDocument map[string]any) (string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return "", err
	}
	var conds []string
	if len(ids) > 0 {
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = quoteLiteral(id)
		}
		conds = append(conds, fmt.Sprintf("id IN (%s)", strings.Join(quoted, ", ")))
	}
	if len(where) > 0 {
		clause, err := metadataClause(where)
		if err != nil {
			return "", err
		}
		conds = append(conds, clause)
	}
	if len(whereDocument) > 0 {
		clause, err := documentClause(whereDocument)
		if err != nil {
			return "", err
		}
		conds = append(conds, clause)
	}
	if len(conds) == 0 {
		return "", &ValidationError{Field: "ids", Reason: "or where or where_document must be provided"}
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(name), strings.Join(conds, " AND ")), nil
}

// VectorQuerySQL builds an approximate KNN query over the embedding column,
// ordered by L2 distance to the query vector.
func VectorQuerySQL(name string, embedding []float64, nResults int, where, whereDocument map[string]any) (string, error) {
	if err := ValidateIdentifier(name, "collection name"); err != nil {
		return "", err
	}
	if len(embedding) == 0 {
		return "", &ValidationError{Field: "query_embeddings", Reason: "cannot be empty"}
	}
	if nResults <= 0 {
		nResults = 10
	}
	var conds []string
	if len(where) > 0 {
		clause, err := metadataClause(where)
		if err != nil {
			return "", err
		}
		conds = append(conds, clause)
	}
	if len(whereDocument) > 0 {
		clause, err := documentClause(whereDocument)
		if err != nil {
			return "", err
		}
		conds = append(conds, clause)
	}
	sql := fmt.Sprintf("SELECT id, document, metadata, l2_distance(embedding, %s) AS distance FROM %s",
		vectorLiteral(embedding), quoteIdent(name))
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY distance APPROXIMATE LIMIT %d", nResults)
	return sql, nil
}

// FullTextSearchSQL builds a MATCH...AGAINST query against a column with a
// FULLTEXT INDEX.
func FullTextSearchSQL(table, column, searchExpr, mode string, returnScore bool, limit int, additionalColumns []string) (string, error) {
	if err := ValidateIdentifier(table, "table name"); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(column, "column name"); err != nil {
		return "", err
	}
	if searchExpr == "" {
		return "", &ValidationError{Field: "search_expr", Reason: "cannot be empty"}
	}
	if limit <= 0 {
		limit = 10
	}

	var selectColumns []string
	if len(additionalColumns) > 0 {
		for _, col := range additionalColumns {
			if err := ValidateIdentifier(col, "column name"); err != nil {
				return "", err
			}
			selectColumns = append(selectColumns, quoteIdent(col))
		}
	} else {
		selectColumns = append(selectColumns, "*")
	}

	expr := quoteLiteral(searchExpr)
	col := quoteIdent(column)
	if returnScore {
		selectColumns = append(selectColumns, fmt.Sprintf("MATCH (%s) AGAINST (%s) AS score", col, expr))
	}

	whereClause := fmt.Sprintf("MATCH (%s) AGAINST (%s)", col, expr)
	if strings.EqualFold(mode, "boolean") {
		whereClause = fmt.Sprintf("MATCH (%s) AGAINST (%s IN BOOLEAN MODE)", col, expr)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(selectColumns, ", "), quoteIdent(table), whereClause)
	if returnScore {
		sql += " ORDER BY score DESC"
	}
	sql += fmt.Sprintf(" LIMIT %d", limit)
	return sql, nil
}

// aiModelTypes are the model kinds DBMS_AI_SERVICE accepts.
var aiModelTypes = map[string]bool{
	"dense_embedding": true,
	"completion":      true,
	"rerank":          true,
}

// CreateAIModelSQL registers an AI model through DBMS_AI_SERVICE.
func CreateAIModelSQL(modelName, modelType, providerModelName string) (string, error) {
	if err := ValidateIdentifier(modelName, "model name"); err != nil {
		return "", err
	}
	if !aiModelTypes[modelType] {
		return "", &ValidationError{Field: "model_type", Reason: "must be one of dense_embedding, completion, rerank"}
	}
	config, err := json.Marshal(map[string]string{"type": modelType, "model_name": providerModelName})
	if err != nil {
		return "", fmt.Errorf("marshal model config: %w", err)
	}
	return fmt.Sprintf("CALL DBMS_AI_SERVICE.CREATE_AI_MODEL(%s, %s)",
		quoteLiteral(modelName), quoteLiteral(string(config))), nil
}

// CreateAIModelEndpointSQL connects a registered model to an external API.
func CreateAIModelEndpointSQL(endpointName, aiModelName, url, accessKey, provider string) (string, error) {
	if err := ValidateIdentifier(endpointName, "endpoint name"); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(aiModelName, "model name"); err != nil {
		return "", err
	}
	config, err := json.Marshal(map[string]string{
		"ai_model_name": aiModelName,
		"url":           url,
		"access_key":    accessKey,
		"provider":      provider,
	})
	if err != nil {
		return "", fmt.Errorf("marshal endpoint config: %w", err)
	}
	return fmt.Sprintf("CALL DBMS_AI_SERVICE.CREATE_AI_MODEL_ENDPOINT(%s, %s)",
		quoteLiteral(endpointName), quoteLiteral(string(config))), nil
}

// DropAIModelSQL removes a registered AI model.
func DropAIModelSQL(modelName string) (string, error) {
	if err := ValidateIdentifier(modelName, "model name"); err != nil {
		return "", err
	}
	return fmt.Sprintf("CALL DBMS_AI_SERVICE.DROP_AI_MODEL(%s)", quoteLiteral(modelName)), nil
}

// DropAIModelEndpointSQL removes a registered AI model endpoint.
func DropAIModelEndpointSQL(endpointName string) (string, error) {
	if err := ValidateIdentifier(endpointName, "endpoint name"); err != nil {
		return "", err
	}
	return fmt.Sprintf("CALL DBMS_AI_SERVICE.DROP_AI_MODEL_ENDPOINT(%s)", quoteLiteral(endpointName)), nil
}

// AICompleteSQL calls a completion model, optionally through an AI_PROMPT
// template with positional arguments.
func AICompleteSQL(modelName, prompt string, templateArgs []string) (string, error) {
	if err := ValidateIdentifier(modelName, "model name"); err != nil {
		return "", err
	}
	if len(templateArgs) > 0 {
		quoted := make([]string, len(templateArgs))
		for i, arg := range templateArgs {
			quoted[i] = quoteLiteral(arg)
		}
		return fmt.Sprintf("SELECT AI_COMPLETE(%s, AI_PROMPT(%s, %s)) AS response",
			quoteLiteral(modelName), quoteLiteral(prompt), strings.Join(quoted, ", ")), nil
	}
	return fmt.Sprintf("SELECT AI_COMPLETE(%s, %s) AS response",
		quoteLiteral(modelName), quoteLiteral(prompt)), nil
}

// AIRerankSQL ranks documents against a query with a rerank model. The
// documents travel as a JSON array literal.
func AIRerankSQL(modelName, query string, documents []string) (string, error) {
	if err := ValidateIdentifier(modelName, "model name"); err != nil {
		return "", err
	}
	if len(documents) == 0 {
		return "", &ValidationError{Field: "documents", Reason: "cannot be empty"}
	}
	docs, err := json.Marshal(documents)
	if err != nil {
		return "", fmt.Errorf("marshal documents: %w", err)
	}
	return fmt.Sprintf("SELECT AI_RERANK(%s, %s, %s) AS rerank_result",
		quoteLiteral(modelName), quoteLiteral(query), quoteLiteral(string(docs))), nil
}

// AIPromptSQL formats a prompt template with positional arguments.
func AIPromptSQL(template string, args []string) string {
	if len(args) == 0 {
		return fmt.Sprintf("SELECT AI_PROMPT(%s) AS prompt_result", quoteLiteral(template))
	}
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteLiteral(arg)
	}
	return fmt.Sprintf("SELECT AI_PROMPT(%s, %s) AS prompt_result",
		quoteLiteral(template), strings.Join(quoted, ", "))
}

// semanticDistances are the metrics the hybrid vector index syntax accepts.
var semanticDistances = map[string]bool{
	"l2":            true,
	"inner_product": true,
	"cosine":        true,
}

var semanticSyncModes = map[string]bool{
	"immediate": true,
	"async":     true,
}

// ModelEndpointCountSQL checks whether a model has a registered endpoint.
func ModelEndpointCountSQL(modelName string) (string, error) {
	if err := ValidateIdentifier(modelName, "model name"); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT count(*) FROM oceanbase.DBA_OB_AI_MODEL_ENDPOINTS WHERE ai_model_name=%s",
		quoteLiteral(modelName)), nil
}

// CreateSemanticIndexSQL creates a hybrid vector index on a VARCHAR column
// so seekdb embeds the text itself through the given model.
func CreateSemanticIndexSQL(table, column, index, model string, dimension int, distance, syncMode string) (string, error) {
	for _, id := range []struct{ value, field string }{
		{table, "table name"},
		{column, "column name"},
		{index, "index name"},
		{model, "model name"},
	} {
		if err := ValidateIdentifier(id.value, id.field); err != nil {
			return "", err
		}
	}
	if dimension <= 0 {
		return "", &ValidationError{Field: "dimension", Reason: "must be positive"}
	}
	if !semanticDistances[distance] {
		return "", &ValidationError{Field: "distance", Reason: "must be one of l2, inner_product, cosine"}
	}
	if !semanticSyncModes[syncMode] {
		return "", &ValidationError{Field: "sync_mode", Reason: "must be immediate or async"}
	}
	return fmt.Sprintf(
		"CREATE VECTOR INDEX %s ON %s (%s) WITH (distance=%s, lib=vsag, type=hnsw, model=%s, dim=%d, sync_mode=%s)",
		quoteIdent(index), quoteIdent(table), quoteIdent(column), distance, model, dimension, syncMode), nil
}

// selectClause validates and joins an optional column list, defaulting to *.
func selectClause(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		if err := ValidateIdentifier(col, "column name"); err != nil {
			return "", err
		}
		quoted[i] = quoteIdent(col)
	}
	return strings.Join(quoted, ", "), nil
}

// SemanticSearchSQL searches a semantically indexed column by query text.
func SemanticSearchSQL(table, column, queryText string, limit int, selectColumns []string) (string, error) {
	if err := ValidateIdentifier(table, "table name"); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(column, "column name"); err != nil {
		return "", err
	}
	if queryText == "" {
		return "", &ValidationError{Field: "query_text", Reason: "cannot be empty"}
	}
	if limit <= 0 {
		limit = 10
	}
	sel, err := selectClause(selectColumns)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY semantic_distance(%s, %s) APPROXIMATE LIMIT %d",
		sel, quoteIdent(table), quoteIdent(column), quoteLiteral(queryText), limit), nil
}

// SemanticVectorSearchSQL searches a semantically indexed column by a
// pre-computed query vector.
func SemanticVectorSearchSQL(table, column string, queryVector []float64, limit int, selectColumns []string) (string, error) {
	if err := ValidateIdentifier(table, "table name"); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(column, "column name"); err != nil {
		return "", err
	}
	if len(queryVector) == 0 {
		return "", &ValidationError{Field: "query_vector", Reason: "cannot be empty"}
	}
	if limit <= 0 {
		limit = 10
	}
	sel, err := selectClause(selectColumns)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY semantic_vector_distance(%s, %s) APPROXIMATE LIMIT %d",
		sel, quoteIdent(table), quoteIdent(column), vectorLiteral(queryVector), limit), nil
}
