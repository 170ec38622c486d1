package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/shopwindow/shopwindow/internal/core/domain"
	"github.com/shopwindow/shopwindow/internal/core/filters"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	tenantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Tenant",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.Int},
			"center_id":        &graphql.Field{Type: graphql.Int},
			"center_name":      &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"suite":            &graphql.Field{Type: graphql.String},
			"retail_category":  &graphql.Field{Type: graphql.String},
			"square_footage":   &graphql.Field{Type: graphql.Float},
			"base_rent":        &graphql.Field{Type: graphql.Float},
			"occupancy_status": &graphql.Field{Type: graphql.String},
			"is_anchor":        &graphql.Field{Type: graphql.Boolean},
			"ownership_type":   &graphql.Field{Type: graphql.String},
		},
	})

	centerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Center",
		Fields: graphql.Fields{
			"id":                 &graphql.Field{Type: graphql.Int},
			"name":               &graphql.Field{Type: graphql.String},
			"location":           &graphql.Field{Type: geoPointType},
			"center_type":        &graphql.Field{Type: graphql.String},
			"total_gla":          &graphql.Field{Type: graphql.Float},
			"owner":              &graphql.Field{Type: graphql.String},
			"property_manager":   &graphql.Field{Type: graphql.String},
			"data_quality_score": &graphql.Field{Type: graphql.Int},
			"tenants": &graphql.Field{
				Type:        graphql.NewList(tenantType),
				Description: "Tenants of this center",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center, ok := p.Source.(domain.ShoppingCenter)
					if !ok {
						if cp, ok := p.Source.(*domain.ShoppingCenter); ok {
							center = *cp
						} else {
							return nil, nil
						}
					}
					spec, err := filters.Compile(filters.EntityTenant, nil, filters.MaxPageSize)
					if err != nil {
						return nil, err
					}
					tenants, _, err := deps.Tenants.List(p.Context, spec, center.ID)
					return tenants, err
				},
			},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"total_centers":         &graphql.Field{Type: graphql.Int},
			"total_tenants":         &graphql.Field{Type: graphql.Int},
			"total_gla":             &graphql.Field{Type: graphql.Float},
			"average_gla":           &graphql.Field{Type: graphql.Float},
			"average_quality_score": &graphql.Field{Type: graphql.Float},
			"added_last_30_days":    &graphql.Field{Type: graphql.Int},
			"geocoding_completion":  &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"centers": &graphql.Field{
				Type:        graphql.NewList(centerType),
				Description: "List shopping centers with optional filters",
				Args: graphql.FieldConfigArgument{
					"search":      &graphql.ArgumentConfig{Type: graphql.String},
					"center_type": &graphql.ArgumentConfig{Type: graphql.String},
					"city":        &graphql.ArgumentConfig{Type: graphql.String},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"page_size":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					params := make(map[string][]string)
					if v, ok := p.Args["search"].(string); ok && v != "" {
						params["search"] = []string{v}
					}
					if v, ok := p.Args["center_type"].(string); ok && v != "" {
						params["center_type"] = []string{v}
					}
					if v, ok := p.Args["city"].(string); ok && v != "" {
						params["address_city"] = []string{v}
					}
					if v, ok := p.Args["page"].(int); ok {
						params["page"] = []string{strconv.Itoa(v)}
					}
					if v, ok := p.Args["page_size"].(int); ok {
						params["page_size"] = []string{strconv.Itoa(v)}
					}
					spec, err := filters.Compile(filters.EntityCenter, params, filters.MaxPageSize)
					if err != nil {
						return nil, err
					}
					centers, _, err := deps.Centers.List(p.Context, spec)
					return centers, err
				},
			},
			"center": &graphql.Field{
				Type:        centerType,
				Description: "Get a shopping center by id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := int64(p.Args["id"].(int))
					return deps.Centers.GetByID(p.Context, id)
				},
			},
			"tenants": &graphql.Field{
				Type:        graphql.NewList(tenantType),
				Description: "List tenants with optional filters",
				Args: graphql.FieldConfigArgument{
					"search":          &graphql.ArgumentConfig{Type: graphql.String},
					"retail_category": &graphql.ArgumentConfig{Type: graphql.String},
					"expiring_soon":   &graphql.ArgumentConfig{Type: graphql.Boolean},
					"page":            &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"page_size":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					params := make(map[string][]string)
					if v, ok := p.Args["search"].(string); ok && v != "" {
						params["search"] = []string{v}
					}
					if v, ok := p.Args["retail_category"].(string); ok && v != "" {
						params["retail_category"] = []string{v}
					}
					if v, ok := p.Args["expiring_soon"].(bool); ok && v {
						params["expiring_soon"] = []string{"true"}
					}
					if v, ok := p.Args["page"].(int); ok {
						params["page"] = []string{strconv.Itoa(v)}
					}
					if v, ok := p.Args["page_size"].(int); ok {
						params["page_size"] = []string{strconv.Itoa(v)}
					}
					spec, err := filters.Compile(filters.EntityTenant, params, filters.MaxPageSize)
					if err != nil {
						return nil, err
					}
					tenants, _, err := deps.Tenants.List(p.Context, spec, 0)
					return tenants, err
				},
			},
			"stats": &graphql.Field{
				Type:        statsType,
				Description: "Dashboard statistics",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Stats.Statistics(p.Context)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
