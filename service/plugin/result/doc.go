// Package result implements the plugin applying workflow result item tags.
//
//	<item name="_priority" type="integer">2</item>
//	<item name="_approved" type="boolean">true</item>
//	<item name="_due" type="date" format="yyyy-MM-dd">2024-05-01</item>
//
// Values may reference workitem items with <itemvalue>name</itemvalue>.
package result
