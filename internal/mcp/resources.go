// ABOUTME: MCP resource implementations for ugmotion.
// ABOUTME: Provides ugmotion://today, ugmotion://plan, and ugmotion://profile resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/ugmotion/ugmotion/internal/fitness"
)

const (
	todayURI   = "ugmotion://today"
	planURI    = "ugmotion://plan"
	profileURI = "ugmotion://profile"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Intake",
		Description: "Water, calorie and protein totals against today's targets",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         planURI,
		Name:        "Weekly Plan",
		Description: "The seven-day workout plan with its exercises",
		MIMEType:    "application/json",
	}, s.handlePlanResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         profileURI,
		Name:        "Profile",
		Description: "The user's profile, equipment and BMI when it can be computed",
		MIMEType:    "application/json",
	}, s.handleProfileResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(todayURI, s.sess.Dashboard())
}

func (s *Server) handlePlanResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	plan := s.sess.WeeklyPlan()
	exercises := 0
	for _, d := range plan {
		exercises += len(d.Activities)
	}

	return jsonResource(planURI, map[string]interface{}{
		"days": plan,
		"counts": map[string]int{
			"days":      len(plan),
			"exercises": exercises,
		},
	})
}

func (s *Server) handleProfileResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	u := s.sess.User()
	result := map[string]interface{}{
		"profile": u,
	}
	if bmi, err := fitness.ParseBMI(u.Height, u.Weight); err == nil {
		result["bmi"] = map[string]interface{}{
			"value":          bmi,
			"classification": fitness.Classify(bmi),
		}
	}
	return jsonResource(profileURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
