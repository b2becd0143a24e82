/*
Package config loads and validates docmirror configuration.

	            +-------------+
	            |   Default   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	+----------+ +----------+ +----------+

Every parser decodes on top of Default, so a config file only needs the
fields it changes. The defaults mirror the Home Assistant user documentation
(source/_docs of home-assistant.io) into plain markdown.

HCL files can read the process environment through the env object:

	source {
	  fetcher = "github"
	  repo    = "github.com/home-assistant/home-assistant.io"
	  ref     = env.DOCS_REF
	}

	transform {
	  replacement {
	    old  = "{% my integrations %}"
	    new  = "Settings > Devices & services"
	  }
	}

	output {
	  changelog_limit = 25
	}
*/
package config
