package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postsmith-ai-api/internal/domain/entity"
)

func TestGeneratePostRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     GeneratePostRequest
		wantErr string
	}{
		{
			name: "valid minimal",
			req: GeneratePostRequest{
				SourceURL: "https://blog.example.com/post",
				Platform:  "twitter",
			},
		},
		{
			name: "valid with ownership and profile",
			req: GeneratePostRequest{
				SourceURL: "http://blog.example.com/post",
				Platform:  "linkedin",
				Ownership: "original",
				ToneProfile: []ToneWeightRequest{
					{Tone: "witty", Weight: 60},
					{Tone: "direct", Weight: 40},
				},
			},
		},
		{
			name: "missing scheme",
			req: GeneratePostRequest{
				SourceURL: "blog.example.com/post",
				Platform:  "twitter",
			},
			wantErr: "source_url",
		},
		{
			name: "non http scheme",
			req: GeneratePostRequest{
				SourceURL: "ftp://blog.example.com/post",
				Platform:  "twitter",
			},
			wantErr: "source_url",
		},
		{
			name: "unknown platform",
			req: GeneratePostRequest{
				SourceURL: "https://blog.example.com/post",
				Platform:  "myspace",
			},
			wantErr: "invalid platform",
		},
		{
			name: "unknown ownership",
			req: GeneratePostRequest{
				SourceURL: "https://blog.example.com/post",
				Platform:  "twitter",
				Ownership: "borrowed",
			},
			wantErr: "invalid ownership",
		},
		{
			name: "profile weights must sum to 100",
			req: GeneratePostRequest{
				SourceURL: "https://blog.example.com/post",
				Platform:  "twitter",
				ToneProfile: []ToneWeightRequest{
					{Tone: "witty", Weight: 30},
				},
			},
			wantErr: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, ownership, profile, err := tt.req.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.Platform(tt.req.Platform), platform)
			if tt.req.Ownership != "" {
				require.NotNil(t, ownership)
				assert.Equal(t, entity.Ownership(tt.req.Ownership), *ownership)
			} else {
				assert.Nil(t, ownership)
			}
			assert.Len(t, profile, len(tt.req.ToneProfile))
		})
	}
}

func TestCreateExampleRequestToExample(t *testing.T) {
	req := CreateExampleRequest{
		Platform:      "twitter",
		Category:      "tech_tutorial",
		Audience:      "developers",
		Ownership:     "original",
		PitchStrength: 70,
		ToneProfile: []ToneWeightRequest{
			{Tone: "casual", Weight: 100},
		},
		Content:   "  an example post  ",
		Summary:   "a summary",
		SourceURL: "https://blog.example.com/post",
	}

	example, err := req.ToExample("owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", example.OwnerID)
	assert.Equal(t, entity.PlatformTwitter, example.Platform)
	assert.Equal(t, entity.CategoryTechTutorial, example.Category)
	assert.Equal(t, 70, example.PitchStrength)
	assert.Equal(t, "an example post", example.Content)

	req.Category = "gossip"
	_, err = req.ToExample("owner-1")
	require.Error(t, err)

	req.Category = "tech_tutorial"
	req.PitchStrength = 130
	_, err = req.ToExample("owner-1")
	require.Error(t, err)
}
