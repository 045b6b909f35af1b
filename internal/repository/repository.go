package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nellermoe/storybridge-backend/internal/domain"
	"github.com/nellermoe/storybridge-backend/internal/graph"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Repository encapsulates typed create/read operations over the graph
// store. It never caches entities; every read re-queries the store.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraints and lookup indexes the
// core relies on. Safe to call repeatedly.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		userIDConstraintCypher,
		storyIDConstraintCypher,
		userNameIndexCypher,
		storyTitleIndexCypher,
	}
	for _, stmt := range statements {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return domain.StoreError{Op: "ensure schema", Err: err}
		}
	}
	return nil
}

// CreateUser creates a User node. The store's uniqueness constraint on the
// identifier surfaces duplicates as a ConflictError.
func (r *Repository) CreateUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return domain.NewValidationError("user id is required")
	}
	if user.Name == "" {
		return domain.NewValidationError("user name is required")
	}

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	params := map[string]any{
		"userId":      user.ID,
		"name":        user.Name,
		"bio":         user.Bio,
		"affiliation": user.Affiliation,
		"nationality": user.Nationality,
		"gender":      user.Gender,
		"createdAt":   formatTime(createdAt),
		"active":      user.Active,
	}

	if _, err := r.client.ExecuteWrite(ctx, createUserCypher, params); err != nil {
		if isConstraintViolation(err) {
			return domain.ConflictError{Entity: "user", Key: user.ID}
		}
		return domain.StoreError{Op: "create user", Err: err}
	}
	return nil
}

// CreateStory creates a Story node and its single AUTHORED edge in one
// write. A missing author yields a NotFoundError before anything persists.
func (r *Repository) CreateStory(ctx context.Context, story domain.Story) error {
	if story.ID == "" {
		return domain.NewValidationError("story id is required")
	}
	if story.Author.ID == "" {
		return domain.NewValidationError("story author id is required")
	}

	createdAt := story.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	params := map[string]any{
		"storyId":   story.ID,
		"title":     story.Title,
		"content":   story.Content,
		"authorId":  story.Author.ID,
		"createdAt": formatTime(createdAt),
	}

	res, err := r.client.ExecuteWrite(ctx, createStoryCypher, params)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ConflictError{Entity: "story", Key: story.ID}
		}
		return domain.StoreError{Op: "create story", Err: err}
	}
	if len(res.Records) == 0 {
		return domain.NotFoundError{Entity: "user", Key: story.Author.ID}
	}
	return nil
}

// CreateConnection creates a directed edge of the given kind between two
// distinct existing users.
func (r *Repository) CreateConnection(ctx context.Context, fromID, toID string, kind domain.ConnectionKind, at time.Time) error {
	if fromID == "" || toID == "" {
		return domain.NewValidationError("both user ids are required")
	}
	if fromID == toID {
		return domain.NewValidationError("cannot connect user %s to itself", fromID)
	}
	if !kind.Valid() {
		return domain.NewValidationError("unsupported connection kind %q", string(kind))
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}

	// Relationship types cannot be parameterized in Cypher; kind is a
	// validated enum value.
	query := fmt.Sprintf(createConnectionCypherTemplate, string(kind))
	res, err := r.client.ExecuteWrite(ctx, query, map[string]any{
		"fromId":    fromID,
		"toId":      toID,
		"createdAt": formatTime(at),
	})
	if err != nil {
		return domain.StoreError{Op: "create connection", Err: err}
	}
	if len(res.Records) == 0 {
		return domain.NotFoundError{Entity: "user", Key: fromID + " or " + toID}
	}
	return nil
}

// RecordShareEdges persists the SHARED edge from sender to story and the
// tagged SHARED_WITH edge from sender to receiver. Callers validate
// existence and sender != receiver before invoking; the empty-result check
// only guards against a concurrent delete.
func (r *Repository) RecordShareEdges(ctx context.Context, storyID, senderID, receiverID string, at time.Time) error {
	if senderID == receiverID {
		return domain.NewValidationError("cannot share story %s with its sender", storyID)
	}

	res, err := r.client.ExecuteWrite(ctx, recordShareCypher, map[string]any{
		"storyId":    storyID,
		"senderId":   senderID,
		"receiverId": receiverID,
		"sharedAt":   formatTime(at),
	})
	if err != nil {
		return domain.StoreError{Op: "record share", Err: err}
	}
	if len(res.Records) == 0 {
		return domain.NotFoundError{Entity: "share participant", Key: storyID}
	}
	return nil
}

// ListUsers returns a page of users ordered by name ascending.
func (r *Repository) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	skip, limit = clampPage(skip, limit)

	res, err := r.client.ExecuteRead(ctx, listUsersCypher, map[string]any{
		"skip":  skip,
		"limit": limit,
	})
	if err != nil {
		return nil, domain.StoreError{Op: "list users", Err: err}
	}

	users := make([]domain.User, 0, len(res.Records))
	for _, record := range res.Records {
		users = append(users, userFromRecord(record))
	}
	return users, nil
}

// ListStories returns a page of stories with embedded author summaries,
// ordered by creation timestamp descending.
func (r *Repository) ListStories(ctx context.Context, skip, limit int) ([]domain.Story, error) {
	skip, limit = clampPage(skip, limit)

	res, err := r.client.ExecuteRead(ctx, listStoriesCypher, map[string]any{
		"skip":  skip,
		"limit": limit,
	})
	if err != nil {
		return nil, domain.StoreError{Op: "list stories", Err: err}
	}

	stories := make([]domain.Story, 0, len(res.Records))
	for _, record := range res.Records {
		stories = append(stories, storyFromRecord(record))
	}
	return stories, nil
}

// FindUserByName looks up a user by exact name. Absence is not an error:
// the result is nil and the caller decides whether that matters.
func (r *Repository) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	return r.findUser(ctx, findUserByNameCypher, map[string]any{"name": name}, "find user by name")
}

// FindUserByID looks up a user by identifier. Absence yields (nil, nil).
func (r *Repository) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findUser(ctx, findUserByIDCypher, map[string]any{"userId": id}, "find user by id")
}

func (r *Repository) findUser(ctx context.Context, query string, params map[string]any, op string) (*domain.User, error) {
	res, err := r.client.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, domain.StoreError{Op: op, Err: err}
	}
	if len(res.Records) == 0 {
		return nil, nil
	}
	user := userFromRecord(res.Records[0])
	return &user, nil
}

// FindStoryByID looks up a story (with author) by identifier. Absence
// yields (nil, nil).
func (r *Repository) FindStoryByID(ctx context.Context, id string) (*domain.Story, error) {
	res, err := r.client.ExecuteRead(ctx, findStoryByIDCypher, map[string]any{"storyId": id})
	if err != nil {
		return nil, domain.StoreError{Op: "find story by id", Err: err}
	}
	if len(res.Records) == 0 {
		return nil, nil
	}
	story := storyFromRecord(res.Records[0])
	return &story, nil
}

// GetStoryWithShares returns a story, its author, and every complete share
// event ordered most recent first. Share records missing the sharer or the
// timestamp are dropped.
func (r *Repository) GetStoryWithShares(ctx context.Context, id string) (*domain.StoryWithShares, error) {
	res, err := r.client.ExecuteRead(ctx, storyWithSharesCypher, map[string]any{"storyId": id})
	if err != nil {
		return nil, domain.StoreError{Op: "get story with shares", Err: err}
	}
	if len(res.Records) == 0 {
		return nil, nil
	}

	record := res.Records[0]
	result := domain.StoryWithShares{Story: storyFromRecord(record)}

	sharesRaw, _ := record["shares"].([]any)
	for _, raw := range sharesRaw {
		shareMap, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		sharerID := toString(shareMap["sharerId"])
		sharedAt := toTimePtr(shareMap["sharedAt"])
		if sharerID == "" || sharedAt == nil {
			continue
		}
		result.Shares = append(result.Shares, domain.ShareEvent{
			Sharer: domain.UserSummary{
				ID:   sharerID,
				Name: toString(shareMap["sharerName"]),
			},
			SharedAt: *sharedAt,
		})
	}

	return &result, nil
}

// GetNetworkSlice returns at most limit user nodes (ordered by name) plus
// every KNOWS/SHARED_WITH edge whose endpoints are both inside the slice.
func (r *Repository) GetNetworkSlice(ctx context.Context, limit int) (domain.NetworkSlice, error) {
	_, limit = clampPage(0, limit)

	res, err := r.client.ExecuteRead(ctx, networkSliceCypher, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return domain.NetworkSlice{}, domain.StoreError{Op: "get network slice", Err: err}
	}
	if len(res.Records) == 0 {
		return domain.NetworkSlice{}, nil
	}

	record := res.Records[0]
	slice := domain.NetworkSlice{}

	if nodesRaw, ok := record["nodes"].([]any); ok {
		for _, raw := range nodesRaw {
			if nodeMap, ok := raw.(map[string]any); ok {
				slice.Nodes = append(slice.Nodes, rawNodeFromMap(nodeMap))
			}
		}
	}
	if edgesRaw, ok := record["edges"].([]any); ok {
		for _, raw := range edgesRaw {
			if edgeMap, ok := raw.(map[string]any); ok {
				slice.Edges = append(slice.Edges, rawEdgeFromMap(edgeMap))
			}
		}
	}

	return slice, nil
}

// ClearAll irreversibly removes every node and edge. Test and seeding use
// only.
func (r *Repository) ClearAll(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, clearAllCypher, nil); err != nil {
		return domain.StoreError{Op: "clear all", Err: err}
	}
	return nil
}

// clampPage coerces pagination bounds to sane non-negative integers so they
// reach the store as valid SKIP/LIMIT values.
func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "ConstraintValidationFailed") ||
		strings.Contains(msg, "already exists")
}

func userFromRecord(record graph.Record) domain.User {
	user := domain.User{
		ID:          toString(record["userId"]),
		Name:        toString(record["name"]),
		Bio:         toString(record["bio"]),
		Affiliation: toString(record["affiliation"]),
		Nationality: toString(record["nationality"]),
		Gender:      toString(record["gender"]),
		Active:      toBool(record["active"]),
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		user.CreatedAt = *created
	}
	return user
}

func storyFromRecord(record graph.Record) domain.Story {
	story := domain.Story{
		ID:      toString(record["storyId"]),
		Title:   toString(record["title"]),
		Content: toString(record["content"]),
		Author: domain.UserSummary{
			ID:   toString(record["authorId"]),
			Name: toString(record["authorName"]),
		},
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		story.CreatedAt = *created
	}
	return story
}

func rawNodeFromMap(m map[string]any) domain.RawNode {
	return domain.RawNode{
		ID:     toString(m["id"]),
		Labels: toStringSlice(m["labels"]),
		Props:  toPropMap(m["props"]),
	}
}

func rawEdgeFromMap(m map[string]any) domain.RawEdge {
	return domain.RawEdge{
		ID:     toString(m["id"]),
		Type:   toString(m["kind"]),
		Source: toString(m["source"]),
		Target: toString(m["target"]),
		Props:  toPropMap(m["props"]),
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toBool(val any) bool {
	if b, ok := val.(bool); ok {
		return b
	}
	return false
}

func toStringSlice(val any) []string {
	raw, ok := val.([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := toString(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func toPropMap(val any) map[string]any {
	if m, ok := val.(map[string]any); ok {
		return m
	}
	return nil
}

func toTimePtr(val any) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return &parsed
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

const userIDConstraintCypher = `
CREATE CONSTRAINT user_id_unique IF NOT EXISTS
FOR (u:User) REQUIRE u.userId IS UNIQUE
`

const storyIDConstraintCypher = `
CREATE CONSTRAINT story_id_unique IF NOT EXISTS
FOR (s:Story) REQUIRE s.storyId IS UNIQUE
`

const userNameIndexCypher = `
CREATE INDEX user_name_lookup IF NOT EXISTS
FOR (u:User) ON (u.name)
`

const storyTitleIndexCypher = `
CREATE INDEX story_title_lookup IF NOT EXISTS
FOR (s:Story) ON (s.title)
`

const createUserCypher = `
CREATE (u:User {
	userId: $userId,
	name: $name,
	bio: $bio,
	affiliation: $affiliation,
	nationality: $nationality,
	gender: $gender,
	createdAt: $createdAt,
	active: $active
})
RETURN u.userId AS userId
`

const createStoryCypher = `
MATCH (a:User {userId: $authorId})
CREATE (s:Story {
	storyId: $storyId,
	title: $title,
	content: $content,
	createdAt: $createdAt
})
CREATE (a)-[:AUTHORED]->(s)
RETURN s.storyId AS storyId
`

const createConnectionCypherTemplate = `
MATCH (a:User {userId: $fromId}), (b:User {userId: $toId})
CREATE (a)-[r:%s {createdAt: $createdAt}]->(b)
RETURN type(r) AS kind
`

const recordShareCypher = `
MATCH (sender:User {userId: $senderId}), (receiver:User {userId: $receiverId}), (s:Story {storyId: $storyId})
CREATE (sender)-[:SHARED {sharedAt: $sharedAt}]->(s)
CREATE (sender)-[:SHARED_WITH {sharedAt: $sharedAt, storyId: $storyId}]->(receiver)
RETURN $sharedAt AS sharedAt
`

const listUsersCypher = `
MATCH (u:User)
RETURN u.userId AS userId,
       u.name AS name,
       u.bio AS bio,
       u.affiliation AS affiliation,
       u.nationality AS nationality,
       u.gender AS gender,
       u.createdAt AS createdAt,
       u.active AS active
ORDER BY u.name ASC
SKIP $skip LIMIT $limit
`

const listStoriesCypher = `
MATCH (a:User)-[:AUTHORED]->(s:Story)
RETURN s.storyId AS storyId,
       s.title AS title,
       s.content AS content,
       s.createdAt AS createdAt,
       a.userId AS authorId,
       a.name AS authorName
ORDER BY datetime(s.createdAt) DESC
SKIP $skip LIMIT $limit
`

const findUserByNameCypher = `
MATCH (u:User {name: $name})
RETURN u.userId AS userId,
       u.name AS name,
       u.bio AS bio,
       u.affiliation AS affiliation,
       u.nationality AS nationality,
       u.gender AS gender,
       u.createdAt AS createdAt,
       u.active AS active
LIMIT 1
`

const findUserByIDCypher = `
MATCH (u:User {userId: $userId})
RETURN u.userId AS userId,
       u.name AS name,
       u.bio AS bio,
       u.affiliation AS affiliation,
       u.nationality AS nationality,
       u.gender AS gender,
       u.createdAt AS createdAt,
       u.active AS active
LIMIT 1
`

const findStoryByIDCypher = `
MATCH (a:User)-[:AUTHORED]->(s:Story {storyId: $storyId})
RETURN s.storyId AS storyId,
       s.title AS title,
       s.content AS content,
       s.createdAt AS createdAt,
       a.userId AS authorId,
       a.name AS authorName
LIMIT 1
`

const storyWithSharesCypher = `
MATCH (a:User)-[:AUTHORED]->(s:Story {storyId: $storyId})
OPTIONAL MATCH (sharer:User)-[sh:SHARED]->(s)
WITH s, a, sharer, sh
ORDER BY sh.sharedAt DESC
RETURN s.storyId AS storyId,
       s.title AS title,
       s.content AS content,
       s.createdAt AS createdAt,
       a.userId AS authorId,
       a.name AS authorName,
       collect({sharerId: sharer.userId, sharerName: sharer.name, sharedAt: sh.sharedAt}) AS shares
`

const networkSliceCypher = `
MATCH (u:User)
WITH u ORDER BY u.name ASC LIMIT $limit
WITH collect(u) AS users
OPTIONAL MATCH (a:User)-[r:KNOWS|SHARED_WITH]->(b:User)
WHERE a IN users AND b IN users
WITH users, collect(DISTINCT CASE WHEN r IS NULL THEN NULL ELSE {
	id: toString(id(r)),
	kind: type(r),
	source: a.userId,
	target: b.userId,
	props: properties(r)
} END) AS edges
RETURN [u IN users | {id: u.userId, labels: labels(u), props: properties(u)}] AS nodes,
       [e IN edges WHERE e IS NOT NULL] AS edges
`

const clearAllCypher = `
MATCH (n)
DETACH DELETE n
`
