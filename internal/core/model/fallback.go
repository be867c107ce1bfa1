// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

// Sentinel and fallback values substituted when a generation stage cannot
// produce model output. Downstream stages treat sentinels as ordinary input,
// so the pipeline always finishes with a fully populated record.
const (
	// AnalysisUnavailableNoFrames is the analysis text used when no frames
	// could be sampled from the source video.
	AnalysisUnavailableNoFrames = "Unable to analyze video content"

	// AnalysisUnavailableModelError is the analysis text used when the
	// vision model call fails.
	AnalysisUnavailableModelError = "Video content analysis unavailable"

	// FallbackTitle is the title used when title generation fails.
	FallbackTitle = "Amazing Video Content"
)

// FallbackDescription is the static description document used when the model
// cannot produce one. It satisfies the full document contract: ten narrative
// lines, a Keywords line with 20 terms, a Hashtags line with 30 tags, and
// the copyright disclaimer.
const FallbackDescription = `Amazing video content that will keep you entertained!
Watch this incredible moment captured on video.
Perfect for sharing with friends and family.
Don't forget to like and subscribe for more content.
This video showcases some really cool stuff.
You won't believe what happens in this video.
Make sure to watch until the end.
Comment below what you think about this.
Share this video if you enjoyed it.
Thanks for watching our content!

Keywords: viral video, trending content, amazing moments, entertainment, social media, short video, funny clips, must watch, incredible, awesome, cool stuff, viral clips, trending now, popular video, engaging content, shareable, entertaining, video content, social sharing, watch now

Hashtags: #shorts #viral #trending #amazing #entertainment #video #content #socialmedia #funny #cool #awesome #mustwatch #incredible #popular #engaging #shareable #entertaining #videooftheday #trend #viral2024 #shortsvideo #viralshorts #trendingshorts #amazingvideo #viralcontent #shortsfeed #explore #fyp #foryou #viralmoment

⚠️ Copyright Disclaimer: This content is used for educational and entertainment purposes. All rights belong to their respective owners. If you are the owner and want this removed, please contact us.`
