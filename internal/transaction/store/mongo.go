package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

const TransactionsCollection = "transactions"

type transactionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Date        time.Time          `bson:"date"`
	Amount      float64            `bson:"amount"`
	Category    string             `bson:"category"`
	Status      string             `bson:"status"`
	UserID      string             `bson:"user_id"`
	UserProfile string             `bson:"user_profile,omitempty"`
}

func (d transactionDoc) toTransaction() *transaction.Transaction {
	return &transaction.Transaction{
		ID:          d.ID.Hex(),
		Date:        d.Date.UTC(),
		Amount:      d.Amount,
		Category:    transaction.Category(d.Category),
		Status:      transaction.Status(d.Status),
		UserID:      d.UserID,
		UserProfile: d.UserProfile,
	}
}

// Mongo stores transactions in a MongoDB collection.
type Mongo struct {
	coll        *mongo.Collection
	listWorkers int
}

type MongoOption func(*Mongo)

// WithListWorkers caps how many of a listing's queries run at once. With 1
// the count runs before the page fetch. Zero or less means no cap.
func WithListWorkers(n int) MongoOption {
	return func(m *Mongo) {
		m.listWorkers = n
	}
}

func NewMongo(db *mongo.Database, opts ...MongoOption) *Mongo {
	m := &Mongo{coll: db.Collection(TransactionsCollection)}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// EnsureIndexes creates the indexes listings and analytics rely on.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "user_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating transaction indexes: %w", err)
	}

	return nil
}

// ListTransactions runs the count and the page fetch concurrently against the
// same filter document.
func (m *Mongo) ListTransactions(ctx context.Context, filter transaction.Filter, page transaction.Page) ([]*transaction.Transaction, int64, error) {
	query := buildFilter(filter)

	opts := options.Find().
		SetSort(buildSort(page)).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Take()))

	var (
		total int64
		docs  []transactionDoc
	)

	g, gctx := errgroup.WithContext(ctx)
	if m.listWorkers > 0 {
		g.SetLimit(m.listWorkers)
	}

	g.Go(func() error {
		n, err := m.coll.CountDocuments(gctx, query)
		if err != nil {
			return fmt.Errorf("counting transactions: %w", err)
		}

		total = n

		return nil
	})

	g.Go(func() error {
		cur, err := m.coll.Find(gctx, query, opts)
		if err != nil {
			return fmt.Errorf("finding transactions: %w", err)
		}

		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("decoding transactions: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	txs := make([]*transaction.Transaction, len(docs))
	for i, d := range docs {
		txs[i] = d.toTransaction()
	}

	return txs, total, nil
}

func (m *Mongo) InsertTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	docs := make([]any, len(txs))

	for i, tx := range txs {
		id := primitive.NewObjectID()

		docs[i] = transactionDoc{
			ID:          id,
			Date:        tx.Date,
			Amount:      tx.Amount,
			Category:    string(tx.Category),
			Status:      string(tx.Status),
			UserID:      tx.UserID,
			UserProfile: tx.UserProfile,
		}
		tx.ID = id.Hex()
	}

	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting transactions: %w", err)
	}

	return nil
}

// buildFilter translates a Filter into a query document. Text values are
// matched as escaped, case-insensitive regular expressions.
func buildFilter(f transaction.Filter) bson.D {
	query := bson.D{}

	if f.Category != "" {
		query = append(query, bson.E{Key: "category", Value: containsRegex(f.Category)})
	}

	if f.Status != "" {
		query = append(query, bson.E{Key: "status", Value: containsRegex(f.Status)})
	}

	if f.UserID != "" {
		query = append(query, bson.E{Key: "user_id", Value: containsRegex(f.UserID)})
	}

	if f.DateFrom != nil || f.DateTo != nil {
		dateRange := bson.D{}
		if f.DateFrom != nil {
			dateRange = append(dateRange, bson.E{Key: "$gte", Value: *f.DateFrom})
		}

		if f.DateTo != nil {
			dateRange = append(dateRange, bson.E{Key: "$lte", Value: *f.DateTo})
		}

		query = append(query, bson.E{Key: "date", Value: dateRange})
	}

	if f.MinAmount != nil || f.MaxAmount != nil {
		amountRange := bson.D{}
		if f.MinAmount != nil {
			amountRange = append(amountRange, bson.E{Key: "$gte", Value: *f.MinAmount})
		}

		if f.MaxAmount != nil {
			amountRange = append(amountRange, bson.E{Key: "$lte", Value: *f.MaxAmount})
		}

		query = append(query, bson.E{Key: "amount", Value: amountRange})
	}

	if f.Search != "" {
		re := containsRegex(f.Search)
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "category", Value: re}},
			bson.D{{Key: "status", Value: re}},
			bson.D{{Key: "user_id", Value: re}},
		}})
	}

	return query
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// buildSort orders by the requested field, then by _id in the same direction
// so that equal keys page deterministically.
func buildSort(p transaction.Page) bson.D {
	dir := -1
	if p.Order == transaction.SortAsc {
		dir = 1
	}

	return bson.D{
		{Key: string(p.SortBy), Value: dir},
		{Key: "_id", Value: dir},
	}
}

type facetResult struct {
	RevenueExpenseTrend []struct {
		Month        string  `bson:"_id"`
		TotalRevenue float64 `bson:"totalRevenue"`
		TotalExpense float64 `bson:"totalExpense"`
	} `bson:"revenueExpenseTrend"`
	TransactionCountTrend []struct {
		Month string `bson:"_id"`
		Count int64  `bson:"count"`
	} `bson:"transactionCountTrend"`
	StatusDistribution []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	} `bson:"statusDistribution"`
	TopUsersExpense []struct {
		UserID     string  `bson:"_id"`
		TotalSpent float64 `bson:"totalSpent"`
	} `bson:"topUsersExpense"`
	SummaryStats []struct {
		AvgAmount float64 `bson:"avgAmount"`
		MaxAmount float64 `bson:"maxAmount"`
		MinAmount float64 `bson:"minAmount"`
	} `bson:"summaryStats"`
}

// Aggregate computes every report section in a single $facet pass.
func (m *Mongo) Aggregate(ctx context.Context) (*analytics.Report, error) {
	cur, err := m.coll.Aggregate(ctx, analyticsPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregating transactions: %w", err)
	}

	var results []facetResult
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decoding analytics: %w", err)
	}

	report := &analytics.Report{}
	if len(results) == 0 {
		return report, nil
	}

	res := results[0]

	for _, r := range res.RevenueExpenseTrend {
		report.RevenueExpenseTrend = append(report.RevenueExpenseTrend, analytics.MonthlyTotals{
			Month:        r.Month,
			TotalRevenue: r.TotalRevenue,
			TotalExpense: r.TotalExpense,
		})
	}

	for _, r := range res.TransactionCountTrend {
		report.TransactionCountTrend = append(report.TransactionCountTrend, analytics.MonthlyCount{Month: r.Month, Count: r.Count})
	}

	for _, r := range res.StatusDistribution {
		report.StatusDistribution = append(report.StatusDistribution, analytics.StatusCount{Status: r.Status, Count: r.Count})
	}

	for _, r := range res.TopUsersExpense {
		report.TopUsersExpense = append(report.TopUsersExpense, analytics.UserSpend{UserID: r.UserID, TotalSpent: r.TotalSpent})
	}

	if len(res.SummaryStats) > 0 {
		s := res.SummaryStats[0]
		report.SummaryStats = analytics.Summary{AvgAmount: s.AvgAmount, MaxAmount: s.MaxAmount, MinAmount: s.MinAmount}
	}

	return report, nil
}

func analyticsPipeline() mongo.Pipeline {
	month := bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$date", "timezone": "UTC"}}

	sumWhen := func(category transaction.Category) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$category", string(category)}},
			"$amount",
			0,
		}}}
	}

	byKeyAsc := bson.M{"$sort": bson.M{"_id": 1}}

	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"revenueExpenseTrend": bson.A{
				bson.M{"$group": bson.M{
					"_id":          month,
					"totalRevenue": sumWhen(transaction.CategoryRevenue),
					"totalExpense": sumWhen(transaction.CategoryExpense),
				}},
				byKeyAsc,
			},
			"transactionCountTrend": bson.A{
				bson.M{"$group": bson.M{"_id": month, "count": bson.M{"$sum": 1}}},
				byKeyAsc,
			},
			"statusDistribution": bson.A{
				bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
				byKeyAsc,
			},
			"topUsersExpense": bson.A{
				bson.M{"$match": bson.M{"category": string(transaction.CategoryExpense)}},
				bson.M{"$group": bson.M{
					"_id":        "$user_id",
					"totalSpent": bson.M{"$sum": "$amount"},
					"firstSeen":  bson.M{"$min": "$_id"},
				}},
				bson.M{"$sort": bson.D{{Key: "totalSpent", Value: -1}, {Key: "firstSeen", Value: 1}}},
				bson.M{"$limit": analytics.TopUsersLimit},
			},
			"summaryStats": bson.A{
				bson.M{"$group": bson.M{
					"_id":       nil,
					"avgAmount": bson.M{"$avg": "$amount"},
					"maxAmount": bson.M{"$max": "$amount"},
					"minAmount": bson.M{"$min": "$amount"},
				}},
			},
		}}},
	}
}
