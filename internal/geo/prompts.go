package geo

// SingleImagePrompt asks for one location per frame as a bare JSON object.
const SingleImagePrompt = `Analyze this image from a YouTube vlog. Identify the specific name of the location (restaurant, cafe, store, etc.) shown.
Return the result as a JSON object with three keys:
1. "name": The common name of the location (e.g., "Fengmi Bunsik").
2. "latitude": The latitude as a float.
3. "longitude": The longitude as a float.
If you cannot determine the precise location or coordinates, return null for the values. Your output must be ONLY the JSON object.`

// BatchedPrompt asks the model to correlate clues across the whole frame set
// and return every confidently identified location in one envelope.
const BatchedPrompt = `You are a world-class geolocation expert with advanced visual analysis and web search simulation capabilities.
Your mission is to pinpoint the exact coordinates of locations shown in a series of images from a video.

Follow this multi-step process:

1.  **Comprehensive Image Analysis:**
    *   Examine all images as a single, continuous context.
    *   Identify prominent features: buildings, storefronts (cafes, shops), escalators, signs, landmarks (parks, stations, statues).
    *   Meticulously extract all visible text, including store names, street signs, and any other readable characters. Pay close attention to language and lettering style.

2.  **Environmental Contextualization:**
    *   Based on the visual cues, infer the general environment. Is it a busy downtown street, a quiet residential area, inside a shopping mall, near a train station entrance, a park, or a university campus?
    *   Synthesize the clues. For example, a cafe next to an escalator inside a large building suggests a shopping mall or a large transit hub.

3.  **Simulated Web Image Search & Verification:**
    *   Formulate a search query based on the extracted text (e.g., "Starbucks near Gwanghwamun Station") and structural features (e.g., "cafe with a green awning and a red brick facade").
    *   Imagine you are performing a web image search with this query. Compare the visual information from the provided images with potential search results.
    *   Verify the location by looking for matching architectural details, color schemes, and surrounding context in the simulated search results.

4.  **Coordinate Acquisition:**
    *   Once a location is confidently identified, retrieve its precise latitude and longitude from public data sources (like a simulated Google Maps or public directory).

5.  **JSON Output:**
    *   Return the result as a single JSON object.
    *   The JSON object must have a single key named "locations".
    *   The value of the "locations" key must be a JSON array of objects.
    *   Each object in the array must represent a unique, verified location and contain three keys:
        1.  "name": The common, full name of the location (e.g., "Starbucks Gwanghwamun Branch").
        2.  "latitude": The latitude as a float.
        3.  "longitude": The longitude as a float.
    *   If you cannot confidently determine the precise location or its coordinates, the "locations" array should be empty.
    *   Your final output MUST BE a valid JSON object only, structured exactly as described. Do not include any other text, explanations, or apologies.`
