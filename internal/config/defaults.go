package config

const (
	defaultConfigPath          = "~/.config/podsubs/config.toml"
	projectConfigName          = "podsubs.toml"
	defaultLogDir              = "~/.local/share/podsubs/logs"
	defaultAssemblyAIBaseURL   = "https://api.assemblyai.com"
	defaultSpeechModel         = "universal"
	defaultTimeoutSeconds      = 1800
	defaultSpeakerLabelPrefix  = "Speaker "
	defaultGapThresholdMs      = 600
	defaultMaxLineLengthChars  = 80
	defaultOutputFormat        = "ass"
	defaultOutputTitle         = "Podcast Subtitles"
	defaultPlayResX            = 1920
	defaultPlayResY            = 1080
	defaultFont                = "Arial"
	defaultFontSize            = 60
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	assemblyAIAPIKeyEnvVarName = "ASSEMBLYAI_API_KEY"
)

// DefaultStyleRules mirrors the built-in speaker rules of the formatter.
func DefaultStyleRules() []StyleRule {
	return []StyleRule{
		{Pattern: "Host A", Style: "HostA"},
		{Pattern: "Speaker A", Style: "HostA"},
		{Pattern: "Host B", Style: "HostB"},
		{Pattern: "Speaker B", Style: "HostB"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CachePath: defaultCachePath(),
			LogDir:    defaultLogDir,
		},
		AssemblyAI: AssemblyAI{
			BaseURL:            defaultAssemblyAIBaseURL,
			SpeechModel:        defaultSpeechModel,
			LanguageDetection:  true,
			SpeakerLabels:      true,
			Punctuate:          true,
			FormatText:         true,
			Summarization:      true,
			IABCategories:      true,
			TimeoutSeconds:     defaultTimeoutSeconds,
			SpeakerLabelPrefix: defaultSpeakerLabelPrefix,
		},
		Segmentation: Segmentation{
			GapThresholdMs:     defaultGapThresholdMs,
			MaxLineLengthChars: defaultMaxLineLengthChars,
		},
		Styles: Styles{Rules: DefaultStyleRules()},
		Output: Output{
			Format:        defaultOutputFormat,
			Title:         defaultOutputTitle,
			PlayResX:      defaultPlayResX,
			PlayResY:      defaultPlayResY,
			Font:          defaultFont,
			FontSize:      defaultFontSize,
			SaveWordsJSON: true,
		},
		Cache: Cache{Enabled: true},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
