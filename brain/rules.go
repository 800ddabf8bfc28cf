package brain

// Static classification tables.
//
// Values are normalized channel intensities (0..255 against the clear
// channel), tuned against the production sensor with the diffuser cap
// fitted. Order matters: the first matching rule wins, so blended
// identities sit above the plain colors they overlap with.

// DetectionTable is the flat table used in Detection mode.
var DetectionTable = []Rule{
	{Identity: "red-orange", R: ChannelRange{112, 190}, G: ChannelRange{56, 92}, B: ChannelRange{0, 58}, Display: RGB{255, 70, 20}},
	{Identity: "red", R: ChannelRange{118, 255}, G: ChannelRange{0, 82}, B: ChannelRange{0, 84}, Display: RGB{255, 0, 0}},
	{Identity: "orange", R: ChannelRange{100, 185}, G: ChannelRange{70, 112}, B: ChannelRange{0, 60}, Display: RGB{255, 120, 0}},
	{Identity: "yellow-green", R: ChannelRange{72, 108}, G: ChannelRange{98, 170}, B: ChannelRange{0, 72}, Display: RGB{150, 230, 20}},
	{Identity: "yellow", R: ChannelRange{94, 160}, G: ChannelRange{86, 150}, B: ChannelRange{0, 70}, Display: RGB{255, 220, 0}},
	{Identity: "green", R: ChannelRange{0, 82}, G: ChannelRange{100, 255}, B: ChannelRange{0, 92}, Display: RGB{0, 255, 0}},
	{Identity: "cyan", R: ChannelRange{0, 72}, G: ChannelRange{86, 162}, B: ChannelRange{84, 170}, Display: RGB{0, 220, 220}},
	{Identity: "blue-violet", R: ChannelRange{58, 112}, G: ChannelRange{0, 78}, B: ChannelRange{96, 210}, Display: RGB{110, 40, 255}},
	{Identity: "blue", R: ChannelRange{0, 84}, G: ChannelRange{0, 96}, B: ChannelRange{98, 255}, Display: RGB{0, 70, 255}},
	{Identity: "purple", R: ChannelRange{80, 142}, G: ChannelRange{0, 76}, B: ChannelRange{78, 172}, Display: RGB{170, 0, 255}},
	{Identity: "pink", R: ChannelRange{108, 200}, G: ChannelRange{48, 108}, B: ChannelRange{68, 140}, Display: RGB{255, 105, 180}},
	{Identity: "white", R: ChannelRange{72, 112}, G: ChannelRange{72, 112}, B: ChannelRange{70, 112}, Display: RGB{255, 255, 255}},
	// Slot reserved for a 13th swatch on the next cap revision.
	{Identity: "spare"},
}

// Collection themes. Each theme contributes one table of five elements; a
// full row of observed elements completes the theme. Tables are probed in
// this order and completions are resolved in this order too.
const (
	ThemeCount       = 6
	ElementsPerTheme = 5
)

// ThemeNames index the collection grid rows.
var ThemeNames = [ThemeCount]string{
	"sunset",
	"meadow",
	"tidepool",
	"canopy",
	"ember",
	"aurora",
}

// CollectionTables holds one rule table per theme. Element indices are
// explicit rather than positional so a disabled placeholder can hold a slot
// without shifting its neighbors.
var CollectionTables = [ThemeCount][]Rule{
	// sunset: warm sky gradient
	{
		{Identity: "sunset-1", Element: 0, R: ChannelRange{118, 210}, G: ChannelRange{0, 70}, B: ChannelRange{0, 70}, Display: RGB{255, 40, 20}},
		{Identity: "sunset-2", Element: 1, R: ChannelRange{104, 180}, G: ChannelRange{62, 104}, B: ChannelRange{0, 58}, Display: RGB{255, 110, 30}},
		{Identity: "sunset-3", Element: 2, R: ChannelRange{96, 158}, G: ChannelRange{84, 140}, B: ChannelRange{0, 66}, Display: RGB{255, 190, 40}},
		{Identity: "sunset-4", Element: 3, R: ChannelRange{104, 190}, G: ChannelRange{44, 100}, B: ChannelRange{70, 138}, Display: RGB{255, 90, 160}},
		{Identity: "sunset-5", Element: 4, R: ChannelRange{76, 130}, G: ChannelRange{0, 74}, B: ChannelRange{86, 190}, Display: RGB{140, 50, 255}},
	},
	// meadow: greens and blossom
	{
		{Identity: "meadow-1", Element: 0, R: ChannelRange{0, 78}, G: ChannelRange{104, 255}, B: ChannelRange{0, 84}, Display: RGB{20, 230, 20}},
		{Identity: "meadow-2", Element: 1, R: ChannelRange{70, 110}, G: ChannelRange{96, 168}, B: ChannelRange{0, 70}, Display: RGB{150, 230, 30}},
		{Identity: "meadow-3", Element: 2, R: ChannelRange{92, 156}, G: ChannelRange{86, 148}, B: ChannelRange{0, 64}, Display: RGB{250, 220, 30}},
		{Identity: "meadow-4", Element: 3, R: ChannelRange{110, 200}, G: ChannelRange{50, 104}, B: ChannelRange{64, 136}, Display: RGB{255, 120, 190}},
		{Identity: "meadow-5", Element: 4, R: ChannelRange{70, 110}, G: ChannelRange{70, 112}, B: ChannelRange{68, 112}, Display: RGB{245, 245, 245}},
	},
	// tidepool: cool blues
	{
		{Identity: "tidepool-1", Element: 0, R: ChannelRange{0, 70}, G: ChannelRange{90, 160}, B: ChannelRange{86, 168}, Display: RGB{0, 210, 210}},
		{Identity: "tidepool-2", Element: 1, R: ChannelRange{0, 80}, G: ChannelRange{0, 94}, B: ChannelRange{102, 255}, Display: RGB{0, 80, 255}},
		{Identity: "tidepool-3", Element: 2, R: ChannelRange{0, 76}, G: ChannelRange{96, 170}, B: ChannelRange{0, 88}, Display: RGB{30, 220, 90}},
		{Identity: "tidepool-4", Element: 3, R: ChannelRange{58, 108}, G: ChannelRange{0, 76}, B: ChannelRange{94, 206}, Display: RGB{120, 40, 255}},
		{Identity: "tidepool-5", Element: 4, R: ChannelRange{72, 112}, G: ChannelRange{72, 114}, B: ChannelRange{70, 114}, Display: RGB{240, 250, 255}},
	},
	// canopy: forest floor to leaf light
	{
		{Identity: "canopy-1", Element: 0, R: ChannelRange{0, 80}, G: ChannelRange{100, 240}, B: ChannelRange{0, 86}, Display: RGB{10, 200, 40}},
		{Identity: "canopy-2", Element: 1, R: ChannelRange{72, 110}, G: ChannelRange{98, 172}, B: ChannelRange{0, 70}, Display: RGB{160, 230, 30}},
		{Identity: "canopy-3", Element: 2, R: ChannelRange{100, 182}, G: ChannelRange{66, 110}, B: ChannelRange{0, 58}, Display: RGB{235, 140, 30}},
		{Identity: "canopy-4", Element: 3, R: ChannelRange{112, 220}, G: ChannelRange{0, 80}, B: ChannelRange{0, 78}, Display: RGB{220, 40, 20}},
		{Identity: "canopy-5", Element: 4, R: ChannelRange{78, 132}, G: ChannelRange{0, 72}, B: ChannelRange{82, 180}, Display: RGB{150, 60, 240}},
	},
	// ember: reds through gold
	{
		{Identity: "ember-1", Element: 0, R: ChannelRange{120, 255}, G: ChannelRange{0, 78}, B: ChannelRange{0, 80}, Display: RGB{255, 30, 10}},
		{Identity: "ember-2", Element: 1, R: ChannelRange{108, 188}, G: ChannelRange{58, 100}, B: ChannelRange{0, 56}, Display: RGB{255, 100, 10}},
		{Identity: "ember-3", Element: 2, R: ChannelRange{98, 164}, G: ChannelRange{84, 144}, B: ChannelRange{0, 62}, Display: RGB{255, 200, 20}},
		{Identity: "ember-4", Element: 3, R: ChannelRange{106, 196}, G: ChannelRange{46, 106}, B: ChannelRange{66, 140}, Display: RGB{255, 110, 170}},
		{Identity: "ember-5", Element: 4, R: ChannelRange{72, 112}, G: ChannelRange{72, 112}, B: ChannelRange{68, 110}, Display: RGB{255, 240, 220}},
	},
	// aurora: violet and green shimmer
	{
		{Identity: "aurora-1", Element: 0, R: ChannelRange{82, 144}, G: ChannelRange{0, 74}, B: ChannelRange{80, 176}, Display: RGB{190, 20, 255}},
		{Identity: "aurora-2", Element: 1, R: ChannelRange{56, 110}, G: ChannelRange{0, 80}, B: ChannelRange{98, 214}, Display: RGB{110, 50, 255}},
		{Identity: "aurora-3", Element: 2, R: ChannelRange{0, 74}, G: ChannelRange{92, 164}, B: ChannelRange{82, 166}, Display: RGB{20, 230, 200}},
		{Identity: "aurora-4", Element: 3, R: ChannelRange{0, 80}, G: ChannelRange{102, 250}, B: ChannelRange{0, 86}, Display: RGB{40, 255, 60}},
		{Identity: "aurora-5", Element: 4, R: ChannelRange{0, 82}, G: ChannelRange{0, 92}, B: ChannelRange{100, 255}, Display: RGB{30, 90, 255}},
	},
}

// SpecialAsset names the upgraded response for a color family.
func SpecialAsset(family string) string {
	return family + specialAssetSuffix
}

// CompleteAsset names the completion response for a theme.
func CompleteAsset(theme string) string {
	return theme + completeAssetSuffix
}

// TrackAssetPrefix is the registry prefix for the bundled music tracks
// selected by idle rotation.
const TrackAssetPrefix = trackAssetPrefix
