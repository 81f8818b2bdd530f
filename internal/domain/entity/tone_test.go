package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile ToneProfile
		wantErr string
	}{
		{
			name:    "valid single tone",
			profile: ToneProfile{{Tone: ToneCasual, Weight: 100}},
		},
		{
			name: "valid split",
			profile: ToneProfile{
				{Tone: ToneWitty, Weight: 60},
				{Tone: ToneDirect, Weight: 40},
			},
		},
		{
			name:    "empty",
			profile: ToneProfile{},
			wantErr: "must not be empty",
		},
		{
			name:    "unknown tone",
			profile: ToneProfile{{Tone: "sarcastic", Weight: 100}},
			wantErr: "invalid tone",
		},
		{
			name: "duplicate tone",
			profile: ToneProfile{
				{Tone: ToneCasual, Weight: 50},
				{Tone: ToneCasual, Weight: 50},
			},
			wantErr: "duplicate tone",
		},
		{
			name:    "zero weight",
			profile: ToneProfile{{Tone: ToneCasual, Weight: 0}},
			wantErr: "out of range",
		},
		{
			name: "sum not 100",
			profile: ToneProfile{
				{Tone: ToneCasual, Weight: 50},
				{Tone: ToneBold, Weight: 40},
			},
			wantErr: "must sum to 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToneProfileWeight(t *testing.T) {
	profile := ToneProfile{
		{Tone: ToneWitty, Weight: 60},
		{Tone: ToneDirect, Weight: 40},
	}

	assert.Equal(t, 60, profile.Weight(ToneWitty))
	assert.Equal(t, 40, profile.Weight(ToneDirect))
	// 未出现的语气隐含权重为 0
	assert.Equal(t, 0, profile.Weight(ToneBold))
}

func TestToneProfileScanValue(t *testing.T) {
	profile := ToneProfile{
		{Tone: ToneCasual, Weight: 70},
		{Tone: ToneEducational, Weight: 30},
	}

	value, err := profile.Value()
	require.NoError(t, err)

	var decoded ToneProfile
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, profile, decoded)

	var fromString ToneProfile
	require.NoError(t, fromString.Scan(`[{"tone":"bold","weight":100}]`))
	assert.Equal(t, ToneProfile{{Tone: ToneBold, Weight: 100}}, fromString)

	var fromNil ToneProfile
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)

	assert.Error(t, fromNil.Scan(42))
}
